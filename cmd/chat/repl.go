package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mandalnilabja/chatrelay/internal/chat"
	"github.com/mandalnilabja/chatrelay/internal/provider"
	"github.com/mandalnilabja/chatrelay/internal/types"
)

const helpText = `Commands:
  /new                 start a new chat
  /list                list chats
  /switch <n>          switch to chat n
  /model <key>         select the model for this chat
  /models              list model keys
  /system [prompt]     show or set the system prompt ("/system reset" restores the default)
  /attach <path> [text] send a file with optional text
  /quit                exit
Anything else is sent as a message.`

// repl is the line-oriented front end over a session store.
type repl struct {
	store  *chat.Store
	client *chat.Client
	prefs  *chat.Preferences
	out    io.Writer
}

func newREPL(store *chat.Store, client *chat.Client, prefs *chat.Preferences, out io.Writer) *repl {
	return &repl{store: store, client: client, prefs: prefs, out: out}
}

// run reads lines until EOF, /quit or ctx is cancelled.
func (r *repl) run(ctx context.Context, in io.Reader) error {
	r.printSession(r.store.Current())

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 64*1024), 1<<20)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		scanErr <- scanner.Err()
	}()

	for {
		r.prompt()
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out)
			return nil
		case err := <-scanErr:
			return err
		case line := <-lines:
			if quit := r.handle(ctx, line); quit {
				return nil
			}
		}
	}
}

func (r *repl) prompt() {
	fmt.Fprintf(r.out, "[%s] you> ", r.store.Current().Model)
}

// handle executes one input line and reports whether the user asked to quit.
func (r *repl) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, "/") {
		r.send(ctx, line, nil)
		return false
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Fprintln(r.out, helpText)
	case "/new":
		r.printSession(r.store.NewChat())
	case "/list":
		r.list()
	case "/switch":
		r.switchTo(arg)
	case "/model":
		r.setModel(arg)
	case "/models":
		r.models()
	case "/system":
		r.system(arg)
	case "/attach":
		r.attach(ctx, arg)
	default:
		fmt.Fprintf(r.out, "unknown command %s, try /help\n", cmd)
	}
	return false
}

func (r *repl) send(ctx context.Context, text string, att *chat.Attachment) {
	reply, ok := r.client.Send(ctx, text, att)
	if !ok {
		return
	}
	r.printMessage(reply)
}

func (r *repl) list() {
	current := r.store.Current().ID
	for i, s := range r.store.Sessions() {
		marker := " "
		if s.ID == current {
			marker = "*"
		}
		fmt.Fprintf(r.out, "%s %d. %s (%s, %s)\n", marker, i+1, s.Title, s.Model, s.CreatedAt.Format("2 Jan 15:04"))
	}
}

func (r *repl) switchTo(arg string) {
	sessions := r.store.Sessions()
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(sessions) {
		fmt.Fprintf(r.out, "usage: /switch <1-%d>\n", len(sessions))
		return
	}
	if err := r.store.Switch(sessions[n-1].ID); err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	r.printSession(r.store.Current())
}

func (r *repl) setModel(key string) {
	if _, err := provider.Resolve(key); err != nil {
		var e *types.Error
		if errors.As(err, &e) {
			fmt.Fprintln(r.out, e.Message)
		}
		fmt.Fprintln(r.out, "use /models to list model keys")
		return
	}
	r.store.SetModel(key)
	if err := r.prefs.SetModel(key); err != nil {
		fmt.Fprintf(r.out, "model selected but not saved: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "model set to %s\n", key)
}

func (r *repl) models() {
	current := r.store.Current().Model
	for _, route := range provider.Routes() {
		marker := " "
		if route.Key == current {
			marker = "*"
		}
		fmt.Fprintf(r.out, "%s %-18s %-10s %s\n", marker, route.Key, route.Family, route.UpstreamModel)
	}
}

func (r *repl) system(arg string) {
	switch arg {
	case "":
		fmt.Fprintf(r.out, "system prompt: %s\n", r.prefs.SystemPrompt())
		return
	case "reset":
		arg = ""
	}
	if err := r.prefs.SetSystemPrompt(arg); err != nil {
		fmt.Fprintf(r.out, "could not save system prompt: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "system prompt: %s\n", r.prefs.SystemPrompt())
}

func (r *repl) attach(ctx context.Context, arg string) {
	path, text, _ := strings.Cut(arg, " ")
	if path == "" {
		fmt.Fprintln(r.out, "usage: /attach <path> [text]")
		return
	}
	att, err := chat.LoadAttachment(path)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	fmt.Fprintf(r.out, "attached %s (%s)\n", att.Name, att.MIMEType)
	r.send(ctx, text, att)
}

func (r *repl) printSession(s chat.Session) {
	fmt.Fprintf(r.out, "── %s ──\n", s.Title)
	for _, m := range s.Messages {
		r.printMessage(m)
	}
}

func (r *repl) printMessage(m chat.Message) {
	switch {
	case m.Error:
		fmt.Fprintf(r.out, "! %s\n", m.Text)
	case m.Role == types.RoleUser:
		text := m.Text
		if m.Attachment != nil {
			text = strings.TrimSpace(text + " [" + m.Attachment.Name + "]")
		}
		fmt.Fprintf(r.out, "you> %s\n", text)
	default:
		fmt.Fprintf(r.out, "assistant> %s\n", m.Text)
	}
}
