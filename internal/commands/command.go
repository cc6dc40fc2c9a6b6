// Package commands parses the command palette grammar into typed commands and
// dispatches them to application handlers.
package commands

import (
	"fmt"
	"strconv"
	"strings"

	"xpdash/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeGoal   Type = "goal"
	TypeDate   Type = "date"
	TypeFind   Type = "find"
	TypeSort   Type = "sort"
	TypeFilter Type = "filter"
	TypeRecur  Type = "recur"
	TypeCat    Type = "cat"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs carries a quick-add line. XP and Category are mutually informative:
// when XP is unset the handler resolves it from the category default.
type AddArgs struct {
	Description string
	XP          int
	HasXP       bool
	Category    string
	Due         *model.DueTime
}

type GoalArgs struct {
	Target int
}

type DateArgs struct {
	// Date is an ISO date, or empty meaning "today".
	Date string
}

type FindArgs struct {
	Text string
}

type SortArgs struct {
	Mode string
}

type FilterArgs struct {
	Mode string
}

// RecurArgs covers recurring-definition management: action is one of
// list, add, delete.
type RecurArgs struct {
	Action      string
	Description string
	XP          int
	Recurrence  model.RecurrenceType
	Weekdays    []string
	Due         *model.DueTime
	TargetID    string
}

// CatArgs covers XP category management: action is one of list, set, delete.
// A nil XP on set means the category carries no default.
type CatArgs struct {
	Action string
	Name   string
	XP     *int
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Goal   *GoalArgs
	Date   *DateArgs
	Find   *FindArgs
	Sort   *SortArgs
	Filter *FilterArgs
	Recur  *RecurArgs
	Cat    *CatArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeGoal:
		return parseGoal(input, args)
	case TypeDate:
		return parseDate(input, args)
	case TypeFind:
		return parseFind(input, args)
	case TypeSort:
		return parseSort(input, args)
	case TypeFilter:
		return parseFilter(input, args)
	case TypeRecur:
		return parseRecur(input, args)
	case TypeCat:
		return parseCat(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd accepts free text with optional trailing key:value modifiers:
// xp:<n>, cat:<name>, due:<HH:MM>. Modifiers may appear anywhere; everything
// else joins into the description.
func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a description"}
	}

	out := AddArgs{}
	words := make([]string, 0, len(args))
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, "xp:"):
			n, err := strconv.Atoi(arg[len("xp:"):])
			if err != nil || n < 0 {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("bad xp value: %s", arg)}
			}
			out.XP = n
			out.HasXP = true
		case strings.HasPrefix(lower, "cat:"):
			out.Category = arg[len("cat:"):]
		case strings.HasPrefix(lower, "due:"):
			due, err := model.ParseDueTime(arg[len("due:"):])
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("bad due time: %s", arg)}
			}
			out.Due = &due
		default:
			words = append(words, arg)
		}
	}
	out.Description = strings.TrimSpace(strings.Join(words, " "))
	if out.Description == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a description"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseGoal(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "goal requires a single XP target"}
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("bad goal value: %s", args[0])}
	}
	return Command{Type: TypeGoal, Raw: raw, Goal: &GoalArgs{Target: n}}, nil
}

func parseDate(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "date requires YYYY-MM-DD or today"}
	}
	arg := strings.ToLower(args[0])
	if arg == "today" {
		return Command{Type: TypeDate, Raw: raw, Date: &DateArgs{}}, nil
	}
	if _, err := model.ParseDate(args[0]); err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("bad date: %s", args[0])}
	}
	return Command{Type: TypeDate, Raw: raw, Date: &DateArgs{Date: args[0]}}, nil
}

func parseFind(raw string, args []string) (Command, error) {
	// An empty find clears the active search.
	return Command{Type: TypeFind, Raw: raw, Find: &FindArgs{Text: strings.Join(args, " ")}}, nil
}

func parseSort(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "sort requires a mode"}
	}
	mode := strings.ToLower(args[0])
	switch mode {
	case "default", "xp_desc", "xp_asc", "alphabetical", "incomplete_first":
		return Command{Type: TypeSort, Raw: raw, Sort: &SortArgs{Mode: mode}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown sort mode: %s", mode)}
	}
}

func parseFilter(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "filter requires a mode"}
	}
	mode := strings.ToLower(args[0])
	switch mode {
	case "all", "done", "todo":
		return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Mode: mode}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown filter mode: %s", mode)}
	}
}

// parseRecur handles:
//
//	recur list
//	recur delete <id>
//	recur add <desc> xp:<n> daily [due:<HH:MM>]
//	recur add <desc> xp:<n> weekly:Mon,Wed [due:<HH:MM>]
//	recur edit <id> <desc> xp:<n> daily|weekly:<days> [due:<HH:MM>]
func parseRecur(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "recur requires an action"}
	}
	action := strings.ToLower(args[0])
	rest := args[1:]

	switch action {
	case "list":
		return Command{Type: TypeRecur, Raw: raw, Recur: &RecurArgs{Action: action}}, nil
	case "delete":
		if len(rest) != 1 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "recur delete requires an id"}
		}
		return Command{Type: TypeRecur, Raw: raw, Recur: &RecurArgs{Action: action, TargetID: rest[0]}}, nil
	case "add":
		return parseRecurSpec(raw, action, "", rest)
	case "edit":
		if len(rest) < 1 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "recur edit requires an id"}
		}
		return parseRecurSpec(raw, action, rest[0], rest[1:])
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown recur action: %s", action)}
	}
}

// parseCat handles:
//
//	cat list
//	cat set <name> <xp|->
//	cat delete <name>
//
// A "-" value on set stores the category without a default XP.
func parseCat(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "cat requires an action"}
	}
	action := strings.ToLower(args[0])
	rest := args[1:]

	switch action {
	case "list":
		return Command{Type: TypeCat, Raw: raw, Cat: &CatArgs{Action: action}}, nil
	case "delete":
		if len(rest) != 1 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "cat delete requires a name"}
		}
		return Command{Type: TypeCat, Raw: raw, Cat: &CatArgs{Action: action, Name: rest[0]}}, nil
	case "set":
		if len(rest) != 2 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "cat set requires a name and an xp value (or -)"}
		}
		out := CatArgs{Action: action, Name: rest[0]}
		if rest[1] != "-" {
			n, err := strconv.Atoi(rest[1])
			if err != nil || n < 0 {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("bad xp value: %s", rest[1])}
			}
			out.XP = &n
		}
		return Command{Type: TypeCat, Raw: raw, Cat: &out}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown cat action: %s", action)}
	}
}

// parseRecurSpec parses the shared definition body of recur add and recur
// edit: free text plus xp:, daily/weekly:, and due: modifiers.
func parseRecurSpec(raw, action, targetID string, args []string) (Command, error) {
	out := RecurArgs{Action: action, TargetID: targetID}
	words := make([]string, 0, len(args))
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, "xp:"):
			n, err := strconv.Atoi(arg[len("xp:"):])
			if err != nil || n < 0 {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("bad xp value: %s", arg)}
			}
			out.XP = n
		case lower == "daily":
			out.Recurrence = model.RecurrenceDaily
		case strings.HasPrefix(lower, "weekly:"):
			out.Recurrence = model.RecurrenceWeekly
			for _, day := range strings.Split(arg[len("weekly:"):], ",") {
				day = strings.TrimSpace(day)
				if day != "" {
					out.Weekdays = append(out.Weekdays, day)
				}
			}
		case strings.HasPrefix(lower, "due:"):
			due, err := model.ParseDueTime(arg[len("due:"):])
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("bad due time: %s", arg)}
			}
			out.Due = &due
		default:
			words = append(words, arg)
		}
	}
	out.Description = strings.TrimSpace(strings.Join(words, " "))
	if out.Description == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("recur %s requires a description", action)}
	}
	if out.Recurrence == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("recur %s requires daily or weekly:<days>", action)}
	}
	return Command{Type: TypeRecur, Raw: raw, Recur: &out}, nil
}
