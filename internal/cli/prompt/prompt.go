// Package prompt asks the operator questions on the terminal.
//
// Every function returns ErrAborted when the operator interrupts the prompt,
// so callers can tell a deliberate cancel from a terminal failure.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrAborted reports that the operator cancelled a prompt.
var ErrAborted = errors.New("aborted")

// IsAborted reports whether err is, or wraps, a cancelled prompt.
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted) ||
		errors.Is(err, promptui.ErrInterrupt) ||
		errors.Is(err, promptui.ErrAbort)
}

func wrapError(err error) error {
	if err != nil && IsAborted(err) {
		return ErrAborted
	}
	return err
}

// ask runs a single line prompt.
func ask(label, def string, validate promptui.ValidateFunc) (string, error) {
	p := promptui.Prompt{Label: label, Default: def, Validate: validate}
	answer, err := p.Run()
	return answer, wrapError(err)
}

// Input asks for free text, offering def as the prefilled answer.
func Input(label, def string) (string, error) {
	return ask(label, def, nil)
}

// InputWithValidation is Input that re-asks until validate accepts the answer.
func InputWithValidation(label, def string, validate func(string) error) (string, error) {
	return ask(label, def, validate)
}

// Confirm asks a yes/no question. An empty answer takes defaultYes.
func Confirm(label string, defaultYes bool) (bool, error) {
	hint := "y/N"
	if defaultYes {
		hint = "Y/n"
	}
	answer, err := ask(fmt.Sprintf("%s [%s]", label, hint), "", validateYesNo)
	if err != nil {
		return false, err
	}
	return parseYesNo(answer, defaultYes), nil
}

// ConfirmDanger guards destructive operations: the operator has to type word
// exactly, for example "yes" before a raw device node is overwritten.
func ConfirmDanger(label, word string) (bool, error) {
	mustMatch := func(s string) error {
		if s != word {
			return fmt.Errorf("type %q to continue", word)
		}
		return nil
	}
	answer, err := ask(fmt.Sprintf("%s (type %q to confirm)", label, word), "", mustMatch)
	if err != nil {
		return false, err
	}
	return answer == word, nil
}

func validateYesNo(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "y", "yes", "n", "no":
		return nil
	}
	return errors.New("answer y or n")
}

func parseYesNo(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def
	case "y", "yes":
		return true
	}
	return false
}

// Option is one entry of a Select list.
type Option struct {
	Label       string
	Value       string
	Description string
}

var selectTemplates = &promptui.SelectTemplates{
	Label:    "{{ . }}",
	Active:   "> {{ .Label | cyan }}",
	Inactive: "  {{ .Label }}",
	Selected: "{{ .Label | green }}",
	Details:  `{{ if .Description }}{{ .Description | faint }}{{ end }}`,
}

// Select shows options as a list and returns the Value of the chosen one.
func Select(label string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", errors.New("no options to choose from")
	}
	s := promptui.Select{
		Label:     label,
		Items:     options,
		Templates: selectTemplates,
		Size:      len(options),
	}
	i, _, err := s.Run()
	if err != nil {
		return "", wrapError(err)
	}
	return options[i].Value, nil
}
