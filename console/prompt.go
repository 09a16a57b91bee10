package console

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/zenibako/fireworks-golang/show"
)

// Action is one entry of the console menu.
type Action string

const (
	ActionAdd       Action = "add"
	ActionRemove    Action = "remove"
	ActionRandomize Action = "randomize"
	ActionNew       Action = "new"
	ActionLoad      Action = "load"
	ActionSave      Action = "save"
	ActionPush      Action = "push"
	ActionQuit      Action = "quit"
)

// CueInput is the raw form input for a new firework.
type CueInput struct {
	Name     string
	Runtime  string
	Category string
}

// Prompter collects operator input. FormPrompter is the interactive implementation.
type Prompter interface {
	ChooseAction(canPush bool) (Action, error)
	NewCue() (CueInput, error)
	SelectCue(rows []show.Row) (int, error)
	FilePath(title, initial string) (string, error)
	Confirm(title string) (bool, error)
}

// FormPrompter prompts with huh forms.
type FormPrompter struct {
	accessible bool
}

// NewFormPrompter creates a prompter. Accessible mode uses plain line prompts, for
// screen readers and dumb terminals.
func NewFormPrompter(accessible bool) *FormPrompter {
	return &FormPrompter{accessible: accessible}
}

func (p *FormPrompter) run(fields ...huh.Field) error {
	return huh.NewForm(huh.NewGroup(fields...)).WithAccessible(p.accessible).Run()
}

// ChooseAction shows the main menu. The push entry is offered only when canPush is set.
func (p *FormPrompter) ChooseAction(canPush bool) (Action, error) {
	options := []huh.Option[Action]{
		huh.NewOption("Add Firework", ActionAdd),
		huh.NewOption("Remove Firework", ActionRemove),
		huh.NewOption("Randomize Main Event Order", ActionRandomize),
		huh.NewOption("New Show", ActionNew),
		huh.NewOption("Load Show", ActionLoad),
		huh.NewOption("Save Show", ActionSave),
	}
	if canPush {
		options = append(options, huh.NewOption("Push to QLab", ActionPush))
	}
	options = append(options, huh.NewOption("Quit", ActionQuit))

	action := ActionAdd
	err := p.run(
		huh.NewSelect[Action]().
			Title("Firework Sequencer").
			Options(options...).
			Value(&action),
	)
	return action, err
}

// NewCue asks for the name, run time and type of a new firework.
func (p *FormPrompter) NewCue() (CueInput, error) {
	in := CueInput{Category: show.CategoryMainEvent}
	err := p.run(
		huh.NewInput().
			Title("Name").
			Value(&in.Name).
			Validate(validateNameInput),
		huh.NewInput().
			Title("Run Time (s)").
			Value(&in.Runtime).
			Validate(validateRuntimeInput),
		huh.NewSelect[string]().
			Title("Type").
			Options(categoryOptions()...).
			Value(&in.Category),
	)
	return in, err
}

// SelectCue asks which firework to remove and returns its index. An empty show
// returns show.NoSelection without prompting.
func (p *FormPrompter) SelectCue(rows []show.Row) (int, error) {
	if len(rows) == 0 {
		return show.NoSelection, nil
	}

	options := make([]huh.Option[int], 0, len(rows))
	for i, r := range rows {
		options = append(options, huh.NewOption(fmt.Sprintf("%d. %s (%s, %s)", r.Sequence, r.Name, r.Category, r.Runtime), i))
	}

	selected := show.NoSelection
	err := p.run(
		huh.NewSelect[int]().
			Title("Remove Firework").
			Options(options...).
			Value(&selected),
	)
	return selected, err
}

// FilePath asks for a show file, starting from initial.
func (p *FormPrompter) FilePath(title, initial string) (string, error) {
	path := initial
	err := p.run(
		huh.NewInput().
			Title(title).
			Placeholder("show.json").
			Value(&path),
	)
	return strings.TrimSpace(path), err
}

// Confirm asks a yes/no question. The default answer is no.
func (p *FormPrompter) Confirm(title string) (bool, error) {
	var ok bool
	err := p.run(
		huh.NewConfirm().
			Title(title).
			Affirmative("Yes").
			Negative("No").
			Value(&ok),
	)
	return ok, err
}

// Form validation errors are shown to the operator as is.
var (
	errFillAllFields = errors.New(msgFillAllFields)
	errRuntimeNumber = errors.New(msgRuntimeNumber)
)

func validateNameInput(s string) error {
	if strings.TrimSpace(s) == "" {
		return errFillAllFields
	}
	return nil
}

func validateRuntimeInput(s string) error {
	if strings.TrimSpace(s) == "" {
		return errFillAllFields
	}
	if _, err := show.ParseSeconds(s); err != nil {
		return errRuntimeNumber
	}
	return nil
}

// categoryOptions lists the firework types in running order.
func categoryOptions() []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(show.Categories))
	for _, c := range show.Categories {
		options = append(options, huh.NewOption(c.String(), c.String()))
	}
	return options
}
