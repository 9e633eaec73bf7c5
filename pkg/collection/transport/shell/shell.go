// Package shell is the line-oriented admin front end. Each command maps to
// one screen action of the storefront admin: pick a list, fill the form,
// save, edit, delete or flip a switch.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	appservice "storefront/pkg/collection/application/service"
	"storefront/pkg/collection/domain/model"
	"storefront/pkg/collection/domain/service"
)

const helpText = `commands:
  collections            list the available collections
  use <collection>       switch to a collection
  list                   show the records of the current collection
  fields                 show the fields of the current collection
  set <field> <value>    fill a field of the form
  draft                  show the form
  save                   add the form as a new record, or save the edit
  edit <id>              load a record into the form
  cancel                 clear the form and stop editing
  rm <id>                delete a record
  toggle <id> <field>    flip a switch field
  help                   show this text
  quit                   leave
`

type Shell struct {
	ws          *appservice.Workspace
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	logger      log.FieldLogger
	current     string
}

// New builds a shell reading commands from in. in must be the same reader
// the confirmation prompt uses.
func New(ws *appservice.Workspace, in *bufio.Reader, out io.Writer, interactive bool, logger log.FieldLogger) *Shell {
	return &Shell{ws: ws, in: in, out: out, interactive: interactive, logger: logger}
}

func (s *Shell) Current() string { return s.current }

func (s *Shell) Use(name string) error {
	if _, err := s.ws.Editor(name); err != nil {
		return err
	}
	s.current = name
	return nil
}

// Run executes commands until quit or end of input.
func (s *Shell) Run() error {
	for {
		if s.interactive {
			fmt.Fprintf(s.out, "%s> ", s.promptName())
		}
		line, err := s.in.ReadString('\n')
		if err != nil && err != io.EOF {
			return errors.Wrap(err, "read command")
		}
		if line != "" {
			if quit := s.Exec(line); quit {
				return nil
			}
		}
		if err == io.EOF {
			return nil
		}
	}
}

// Exec runs one command line and reports whether the session should end.
func (s *Shell) Exec(line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}
	cmd, args := strings.ToLower(args[0]), args[1:]
	s.logger.WithFields(log.Fields{"command": cmd, "collection": s.current}).Debug("shell command")

	switch cmd {
	case "quit", "exit":
		return true
	case "help", "?":
		fmt.Fprint(s.out, helpText)
	case "collections":
		s.collections()
	case "use":
		if len(args) != 1 {
			s.usage("use <collection>")
			return false
		}
		if err := s.Use(args[0]); err != nil {
			fmt.Fprintf(s.out, "unknown collection %q\n", args[0])
		}
	default:
		editor, ok := s.editor()
		if !ok {
			return false
		}
		s.editorCommand(editor, cmd, args, line)
	}
	return false
}

func (s *Shell) editorCommand(editor service.CollectionEditor, cmd string, args []string, line string) {
	switch cmd {
	case "list", "ls":
		s.list(editor)
	case "fields":
		s.fields(editor.Schema())
	case "draft":
		s.draft(editor)
	case "set":
		if len(args) < 1 {
			s.usage("set <field> <value>")
			return
		}
		s.set(editor, args[0], valueOf(line, args[0]))
	case "save":
		if _, err := editor.Submit(); err != nil {
			s.logger.WithError(err).Debug("save rejected")
		}
	case "edit":
		if len(args) != 1 {
			s.usage("edit <id>")
			return
		}
		editor.BeginEdit(args[0])
		if id, ok := editor.Editing(); ok && id == args[0] {
			s.draft(editor)
		}
	case "cancel":
		editor.CancelEdit()
	case "rm", "delete":
		if len(args) != 1 {
			s.usage("rm <id>")
			return
		}
		removed, err := editor.Remove(args[0])
		switch {
		case errors.Is(err, model.ErrNotFound):
			s.logger.WithField("id", args[0]).Debug("nothing to delete")
		case err != nil:
			fmt.Fprintf(s.out, "delete aborted: %v\n", err)
		case !removed:
			fmt.Fprintln(s.out, "Cancelled")
		}
	case "toggle":
		if len(args) != 2 {
			s.usage("toggle <id> <field>")
			return
		}
		if _, err := editor.Toggle(args[0], args[1]); err != nil {
			s.logger.WithError(err).Debug("toggle rejected")
		}
	default:
		fmt.Fprintf(s.out, "unknown command %q, type help\n", cmd)
	}
}

func (s *Shell) editor() (service.CollectionEditor, bool) {
	if s.current == "" {
		fmt.Fprintln(s.out, "no collection selected, type: use <collection>")
		return nil, false
	}
	editor, err := s.ws.Editor(s.current)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return nil, false
	}
	return editor, true
}

func (s *Shell) collections() {
	for _, name := range s.ws.Names() {
		editor, _ := s.ws.Editor(name)
		marker := " "
		if name == s.current {
			marker = "*"
		}
		fmt.Fprintf(s.out, "%s %s (%d)\n", marker, name, editor.Items().Len())
	}
}

func (s *Shell) list(editor service.CollectionEditor) {
	items := editor.Items()
	if items.Len() == 0 {
		fmt.Fprintf(s.out, "no %s yet\n", editor.Schema().Name)
		return
	}
	schema := editor.Schema()
	for _, r := range items.Records() {
		fmt.Fprintf(s.out, "%s\t%s\n", r.ID, formatFields(schema, r.Fields()))
	}
}

func (s *Shell) fields(schema model.Schema) {
	for _, f := range schema.Fields {
		var notes []string
		if f.Required {
			notes = append(notes, "required")
		}
		if f.Name == schema.KeyField {
			notes = append(notes, "unique")
		}
		if f.Min != nil {
			notes = append(notes, boundNote(">", f.Min))
		}
		if f.Max != nil {
			notes = append(notes, boundNote("<", f.Max))
		}
		line := fmt.Sprintf("%s\t%s", f.Name, f.Kind)
		if len(notes) > 0 {
			line += "\t" + strings.Join(notes, ", ")
		}
		fmt.Fprintln(s.out, line)
	}
}

func (s *Shell) draft(editor service.CollectionEditor) {
	if id, ok := editor.Editing(); ok {
		fmt.Fprintf(s.out, "editing %s\n", id)
	} else {
		fmt.Fprintln(s.out, "new record")
	}
	d := editor.Draft()
	for _, f := range editor.Schema().Fields {
		if f.Kind == model.Flag {
			fmt.Fprintf(s.out, "  %s: %t\n", f.Name, d.Flags[f.Name])
			continue
		}
		fmt.Fprintf(s.out, "  %s: %s\n", f.Name, d.Text[f.Name])
	}
}

func (s *Shell) set(editor service.CollectionEditor, field, value string) {
	fs, ok := editor.Schema().Field(field)
	if !ok {
		fmt.Fprintf(s.out, "%s has no field %q\n", editor.Schema().Name, field)
		return
	}
	if fs.Kind != model.Flag {
		s.report(editor.SetText(field, value))
		return
	}
	on, err := parseFlag(value)
	if err != nil {
		fmt.Fprintf(s.out, "%s takes yes or no\n", field)
		return
	}
	s.report(editor.SetFlag(field, on))
}

func (s *Shell) report(err error) {
	if err != nil {
		fmt.Fprintln(s.out, err)
	}
}

func (s *Shell) usage(text string) {
	fmt.Fprintf(s.out, "usage: %s\n", text)
}

func (s *Shell) promptName() string {
	if s.current == "" {
		return "storefront"
	}
	return "storefront:" + s.current
}

// valueOf returns everything after the field name, so values may contain
// spaces.
func valueOf(line, field string) string {
	rest := strings.TrimSpace(line)
	if i := strings.IndexFunc(rest, isSpace); i >= 0 {
		rest = strings.TrimSpace(rest[i:])
	} else {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(rest, field))
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' }

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	return strconv.ParseBool(s)
}

func formatFields(schema model.Schema, values map[string]model.Value) string {
	parts := make([]string, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		v, ok := values[f.Name]
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", f.Name, v))
	}
	return strings.Join(parts, " ")
}

func boundNote(op string, b *model.Bound) string {
	if b.Inclusive {
		op += "="
	}
	return op + " " + b.Value.String()
}
