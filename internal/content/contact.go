package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/termdesk/internal/config"
)

// Message is one note composed in the Contact panel.
type Message struct {
	Time    time.Time `json:"time"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Message string    `json:"message"`
}

// Inbox appends messages to a JSON lines file.
type Inbox struct {
	path string
}

// NewInbox returns an inbox stored at path.
func NewInbox(path string) *Inbox {
	return &Inbox{path: path}
}

// Path returns the inbox file path.
func (i *Inbox) Path() string { return i.path }

// Append writes msg as one JSON line, creating the file if needed.
func (i *Inbox) Append(msg Message) error {
	if i == nil || i.path == "" {
		return errors.New("no inbox configured")
	}
	if err := os.MkdirAll(filepath.Dir(i.path), 0700); err != nil {
		return fmt.Errorf("failed to create inbox directory: %w", err)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}
	f, err := os.OpenFile(i.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open inbox: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write inbox: %w", err)
	}
	return nil
}

// contactSavedMsg reports the result of writing a message to the inbox.
type contactSavedMsg struct {
	id  int
	err error
}

// Contact shows contact details and a form for leaving a message.
type Contact struct {
	id     int
	info   *document
	inbox  *Inbox
	now    func() time.Time
	status string
	failed bool

	editing   bool
	form      *huh.Form
	width     int
	formWidth int

	fName    string
	fEmail   string
	fMessage string
}

// NewContact builds the Contact panel. A nil inbox hides the form.
func NewContact(cfg config.ContactConfig, inbox *Inbox, animate bool) *Contact {
	lines := []line{
		{kind: lineHeading, text: "Contact"},
		{kind: lineBlank},
	}
	if cfg.Email != "" {
		lines = append(lines, line{kind: lineText, text: "Email: " + cfg.Email})
	}
	if cfg.LinkedIn != "" {
		lines = append(lines, line{kind: lineText, text: "LinkedIn: " + cfg.LinkedIn})
	}
	if cfg.GitHub != "" {
		lines = append(lines, line{kind: lineText, text: "GitHub: " + cfg.GitHub})
	}
	return &Contact{
		id:    nextID(),
		info:  newDocument(lines, animate),
		inbox: inbox,
		now:   time.Now,
	}
}

// Capturing reports whether the message form owns the keyboard.
func (c *Contact) Capturing() bool { return c.editing }

func (c *Contact) startEditing() tea.Cmd {
	c.fName, c.fEmail, c.fMessage = "", "", ""
	c.status = ""
	c.editing = true
	c.formWidth = max(c.width, 20)
	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&c.fName).
				Validate(required("name")),
			huh.NewInput().
				Key("email").
				Title("Email").
				Description("So I can write back").
				Value(&c.fEmail).
				Validate(validEmail),
			huh.NewText().
				Key("message").
				Title("Message").
				Lines(4).
				Value(&c.fMessage).
				Validate(required("message")),
		),
	).WithWidth(c.formWidth).
		WithShowHelp(true).
		WithShowErrors(true)
	return c.form.Init()
}

func required(field string) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validEmail(v string) error {
	v = strings.TrimSpace(v)
	at := strings.Index(v, "@")
	if at <= 0 || at == len(v)-1 {
		return errors.New("enter a valid email address")
	}
	return nil
}

func (c *Contact) submit() tea.Cmd {
	msg := Message{
		Time:    c.now().UTC(),
		Name:    strings.TrimSpace(c.fName),
		Email:   strings.TrimSpace(c.fEmail),
		Message: strings.TrimSpace(c.fMessage),
	}
	inbox, id := c.inbox, c.id
	return func() tea.Msg {
		return contactSavedMsg{id: id, err: inbox.Append(msg)}
	}
}

func (c *Contact) Init() tea.Cmd {
	return c.info.Init()
}

func (c *Contact) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if saved, ok := msg.(contactSavedMsg); ok {
		if saved.id != c.id {
			return c, nil
		}
		if saved.err != nil {
			c.status = "Could not save message: " + saved.err.Error()
			c.failed = true
		} else {
			c.status = "Thanks! Your message was saved."
			c.failed = false
		}
		return c, nil
	}

	if !c.editing {
		if km, ok := msg.(tea.KeyMsg); ok && c.inbox != nil {
			switch km.String() {
			case "enter", "m":
				return c, c.startEditing()
			}
		}
		_, cmd := c.info.Update(msg)
		return c, cmd
	}

	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		c.editing = false
		c.form = nil
		c.status = "Message discarded."
		c.failed = false
		return c, nil
	}
	if _, ok := msg.(RevealTickMsg); ok {
		_, cmd := c.info.Update(msg)
		return c, cmd
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}
	switch c.form.State {
	case huh.StateCompleted:
		c.editing = false
		c.form = nil
		c.status = "Sending..."
		return c, c.submit()
	case huh.StateAborted:
		c.editing = false
		c.form = nil
		return c, nil
	}
	return c, cmd
}

func (c *Contact) body(width int) string {
	c.width = width
	parts := []string{strings.Join(c.info.render(width), "\n")}
	if c.editing && c.form != nil {
		if width != c.formWidth {
			c.formWidth = width
			c.form = c.form.WithWidth(width)
		}
		parts = append(parts, "", c.form.View())
	} else if c.inbox != nil {
		parts = append(parts, "", subtleStyle.Render("Press enter to leave a message."))
	}
	if c.status != "" {
		style := statusStyle
		if c.failed {
			style = errorStyle
		}
		parts = append(parts, "", style.Width(width).Render(c.status))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (c *Contact) Height(width int) int {
	if width <= 0 {
		return 0
	}
	return lipgloss.Height(c.body(width))
}

func (c *Contact) View(width, height int) string {
	return fit(c.body(width), width, height)
}
