// Package counter is the reducer half of the store demo: an integer counter
// changed by increment and decrement actions.
package counter

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Action tags understood by Reduce.
const (
	Increment = "[Counter] Increment"
	Decrement = "[Counter] Decrement"
)

// Action is a tagged record describing an intended state transition.
type Action struct {
	Type    string `json:"type" yaml:"type"`
	Payload int    `json:"payload" yaml:"payload"`
}

// String renders the action as "<type> <payload>".
func (a Action) String() string {
	return fmt.Sprintf("%s %d", a.Type, a.Payload)
}

// Reduce returns the next counter state. Both the canonical tags and their
// short aliases are accepted; unknown action types leave the state unchanged.
func Reduce(state int, action Action) int {
	switch normalizeType(action.Type) {
	case Increment:
		return state + action.Payload
	case Decrement:
		return state - action.Payload
	default:
		return state
	}
}

// aliases maps short command-line names to canonical action tags.
var aliases = map[string]string{
	"increment": Increment,
	"inc":       Increment,
	"decrement": Decrement,
	"dec":       Decrement,
}

// normalizeType maps a short alias to its canonical tag. Other types are
// returned unchanged so that unknown actions can still be dispatched.
func normalizeType(t string) string {
	if canonical, ok := aliases[strings.ToLower(t)]; ok {
		return canonical
	}
	return t
}

// ParseAction parses a "<type>:<payload>" token such as "increment:10" or
// "[Counter] Decrement:3". The payload is split off at the last colon.
func ParseAction(token string) (Action, error) {
	i := strings.LastIndex(token, ":")
	if i < 0 {
		return Action{}, fmt.Errorf("counter: action %q: want <type>:<payload>", token)
	}
	typ := strings.TrimSpace(token[:i])
	if typ == "" {
		return Action{}, fmt.Errorf("counter: action %q: empty type", token)
	}
	payload, err := strconv.Atoi(strings.TrimSpace(token[i+1:]))
	if err != nil {
		return Action{}, fmt.Errorf("counter: action %q: payload: %w", token, err)
	}
	return Action{Type: normalizeType(typ), Payload: payload}, nil
}

// ParseActions parses every token, returning all problems joined together.
func ParseActions(tokens []string) ([]Action, error) {
	var (
		actions []Action
		errs    []error
	)
	for _, tok := range tokens {
		a, err := ParseAction(tok)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		actions = append(actions, a)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return actions, nil
}

// script is the on-disk layout of an action script.
type script struct {
	Actions []Action `yaml:"actions"`
}

// LoadScript reads a YAML (or JSON) file with a top-level "actions" list.
// Short type aliases are normalized.
func LoadScript(path string) ([]Action, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("counter: read script: %w", err)
	}
	var s script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("counter: parse script %s: %w", path, err)
	}
	for i := range s.Actions {
		s.Actions[i].Type = normalizeType(s.Actions[i].Type)
	}
	return s.Actions, nil
}
