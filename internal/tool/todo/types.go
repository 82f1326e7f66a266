package todo

import "fmt"

// TodoStatus represents the status of a todo item.
type TodoStatus string

const (
	TodoStatusPending    TodoStatus = "pending"
	TodoStatusInProgress TodoStatus = "in_progress"
	TodoStatusCompleted  TodoStatus = "completed"
	TodoStatusCancelled  TodoStatus = "cancelled"
)

// Todo represents a single task item.
type Todo struct {
	Description string     `json:"description"`
	Status      TodoStatus `json:"status"`
}

// ReadTodosInput takes no arguments.
type ReadTodosInput struct{}

// WriteTodosInput replaces the whole list.
type WriteTodosInput struct {
	Todos []Todo `json:"todos"`
}

func (r *WriteTodosInput) String() string {
	return fmt.Sprintf("%d items", len(r.Todos))
}

func (r *WriteTodosInput) validate() error {
	for i, todo := range r.Todos {
		switch todo.Status {
		case TodoStatusPending, TodoStatusInProgress, TodoStatusCompleted, TodoStatusCancelled:
		default:
			return &ItemError{Index: i, Cause: fmt.Errorf("%w: %q", ErrInvalidStatus, todo.Status)}
		}
		if todo.Description == "" {
			return &ItemError{Index: i, Cause: ErrEmptyDescription}
		}
	}
	return nil
}
