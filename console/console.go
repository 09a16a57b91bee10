// Package console is the interactive operator front end for a fireworks show.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"

	"github.com/zenibako/fireworks-golang/show"
	"github.com/zenibako/fireworks-golang/templates"
)

const (
	msgFillAllFields   = "Please fill in all fields."
	msgRuntimeNumber   = "Run Time must be a number."
	msgSelectToRemove  = "Please select a firework to remove."
	msgDiscardChanges  = "Discard unsaved changes?"
	msgQuitWithoutSave = "Quit without saving?"
)

// Pusher sends a show to a cue-playback target.
type Pusher interface {
	Push(ctx context.Context, s *show.Show) (templates.CueGenerationResult, error)
}

// Console drives one show from operator input.
type Console struct {
	show        *show.Show
	prompter    Prompter
	out         io.Writer
	pusher      Pusher
	defaultPath string
}

// Option configures a Console.
type Option func(*Console)

// WithPusher enables the push action.
func WithPusher(p Pusher) Option {
	return func(c *Console) {
		c.pusher = p
	}
}

// WithDefaultPath sets the path offered by load and save when the show has none.
func WithDefaultPath(path string) Option {
	return func(c *Console) {
		c.defaultPath = path
	}
}

// New creates a console for s that reads input from prompter and writes to out.
func New(s *show.Show, prompter Prompter, out io.Writer, opts ...Option) *Console {
	c := &Console{
		show:     s,
		prompter: prompter,
		out:      out,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run renders the show and handles actions until the operator quits or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.Render()

		action, err := c.prompter.ChooseAction(c.pusher != nil)
		if errors.Is(err, huh.ErrUserAborted) {
			action = ActionQuit
		} else if err != nil {
			return fmt.Errorf("failed to read action: %w", err)
		}

		quit, err := c.Handle(ctx, action)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// Render writes the running order and totals.
func (c *Console) Render() {
	fmt.Fprintln(c.out, RenderTable(c.show.Rows()))
	fmt.Fprintln(c.out, RenderTotals(c.show.Totals()))
}

// Handle performs one action. Engine errors are reported to the operator and
// do not stop the console; only prompt failures are returned.
func (c *Console) Handle(ctx context.Context, action Action) (bool, error) {
	log.Debug("Console action", "action", action)

	var err error
	switch action {
	case ActionAdd:
		err = c.add()
	case ActionRemove:
		err = c.remove()
	case ActionRandomize:
		c.randomize()
	case ActionNew:
		err = c.newShow()
	case ActionLoad:
		err = c.load()
	case ActionSave:
		err = c.save()
	case ActionPush:
		c.push(ctx)
	case ActionQuit:
		return c.confirmQuit()
	default:
		c.warn("Input Error", fmt.Sprintf("Unknown action %q.", action))
	}

	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return false, err
}

func (c *Console) add() error {
	in, err := c.prompter.NewCue()
	if err != nil {
		return err
	}

	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Runtime) == "" || in.Category == "" {
		c.warn("Input Error", msgFillAllFields)
		return nil
	}
	if _, err := show.ParseSeconds(in.Runtime); err != nil {
		c.warn("Input Error", msgRuntimeNumber)
		return nil
	}

	cue, err := c.show.AddCue(in.Name, in.Runtime, in.Category)
	if err != nil {
		c.warn("Input Error", err.Error())
		return nil
	}
	c.notice(fmt.Sprintf("Added %s as #%d.", cue.Name, cue.Sequence))
	return nil
}

func (c *Console) remove() error {
	if c.show.Len() == 0 {
		c.warn("Selection Error", msgSelectToRemove)
		return nil
	}

	index, err := c.prompter.SelectCue(c.show.Rows())
	if err != nil {
		return err
	}

	cue, err := c.show.RemoveCue(index)
	if errors.Is(err, show.ErrSelection) {
		c.warn("Selection Error", msgSelectToRemove)
		return nil
	} else if err != nil {
		c.warn("Selection Error", err.Error())
		return nil
	}
	c.notice(fmt.Sprintf("Removed %s.", cue.Name))
	return nil
}

func (c *Console) randomize() {
	c.show.Randomize()
	c.notice("Main Event order randomized.")
}

func (c *Console) newShow() error {
	ok, err := c.confirmDiscard(msgDiscardChanges)
	if err != nil || !ok {
		return err
	}
	c.show.NewShow()
	c.notice("Started a new show.")
	return nil
}

func (c *Console) load() error {
	path, err := c.prompter.FilePath("Load Show", c.suggestedPath())
	if err != nil {
		return err
	}
	if path == "" {
		c.warn("Load Error", "No file name given.")
		return nil
	}

	ok, err := c.confirmDiscard(msgDiscardChanges)
	if err != nil || !ok {
		return err
	}

	if err := c.show.LoadShow(path); err != nil {
		c.warn("Load Error", err.Error())
		return nil
	}
	c.notice(fmt.Sprintf("Loaded %d fireworks from %s.", c.show.Len(), path))
	return nil
}

func (c *Console) save() error {
	path, err := c.prompter.FilePath("Save Show", c.suggestedPath())
	if err != nil {
		return err
	}

	if err := c.show.SaveShow(path); err != nil {
		c.warn("Save Error", err.Error())
		return nil
	}
	c.notice(fmt.Sprintf("Saved show to %s.", path))
	return nil
}

func (c *Console) push(ctx context.Context) {
	if c.pusher == nil {
		c.warn("Push Error", "No QLab workspace configured.")
		return
	}
	if c.show.Len() == 0 {
		c.warn("Push Error", "The show has no fireworks.")
		return
	}

	result, err := c.pusher.Push(ctx, c.show)
	if err != nil {
		c.warn("Push Error", err.Error())
		return
	}
	for _, e := range result.Errors {
		c.warn("Push Warning", e)
	}
	c.notice(fmt.Sprintf("Pushed %d cues to QLab.", len(result.CuesCreated)))
}

func (c *Console) confirmQuit() (bool, error) {
	ok, err := c.confirmDiscard(msgQuitWithoutSave)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

// confirmDiscard asks only when the show has unsaved changes.
func (c *Console) confirmDiscard(title string) (bool, error) {
	if !c.show.Dirty() {
		return true, nil
	}
	return c.prompter.Confirm(title)
}

func (c *Console) suggestedPath() string {
	if p := c.show.Path(); p != "" {
		return p
	}
	return c.defaultPath
}

func (c *Console) warn(title, message string) {
	log.Warn(title, "message", message)
	fmt.Fprintln(c.out, renderWarning(title, message))
}

func (c *Console) notice(message string) {
	fmt.Fprintln(c.out, renderNotice(message))
}
