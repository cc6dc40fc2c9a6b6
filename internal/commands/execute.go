package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Goal   func(GoalArgs) (Result, error)
	Date   func(DateArgs) (Result, error)
	Find   func(FindArgs) (Result, error)
	Sort   func(SortArgs) (Result, error)
	Filter func(FilterArgs) (Result, error)
	Recur  func(RecurArgs) (Result, error)
	Cat    func(CatArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "add handler not configured"}
		}
		return handlers.Add(*cmd.Add)
	case TypeGoal:
		if handlers.Goal == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "goal handler not configured"}
		}
		return handlers.Goal(*cmd.Goal)
	case TypeDate:
		if handlers.Date == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "date handler not configured"}
		}
		return handlers.Date(*cmd.Date)
	case TypeFind:
		if handlers.Find == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "find handler not configured"}
		}
		return handlers.Find(*cmd.Find)
	case TypeSort:
		if handlers.Sort == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "sort handler not configured"}
		}
		return handlers.Sort(*cmd.Sort)
	case TypeFilter:
		if handlers.Filter == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "filter handler not configured"}
		}
		return handlers.Filter(*cmd.Filter)
	case TypeRecur:
		if handlers.Recur == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "recur handler not configured"}
		}
		return handlers.Recur(*cmd.Recur)
	case TypeCat:
		if handlers.Cat == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "cat handler not configured"}
		}
		return handlers.Cat(*cmd.Cat)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
