package todo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Cyclone1070/warden/internal/tool"
)

// todoStore defines the interface for todo storage.
type todoStore interface {
	Read() []Todo
	Write(todos []Todo)
}

var statusSchema = &tool.Schema{
	Type: tool.TypeString,
	Enum: []string{
		string(TodoStatusPending), string(TodoStatusInProgress),
		string(TodoStatusCompleted), string(TodoStatusCancelled),
	},
}

// ReadTodosTool returns the session task list.
type ReadTodosTool struct {
	store todoStore
}

// NewReadTodosTool creates a new ReadTodosTool.
func NewReadTodosTool(store todoStore) *ReadTodosTool {
	return &ReadTodosTool{store: store}
}

func (t *ReadTodosTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        "read_todos",
		Description: "Read the task list for this session.",
		Parameters:  &tool.Schema{Type: tool.TypeObject, Properties: map[string]*tool.Schema{}},
		ReadOnly:    true,
	}
}

func (t *ReadTodosTool) Input() any { return &ReadTodosInput{} }

func (t *ReadTodosTool) Execute(_ context.Context, input any) (tool.Output, error) {
	if _, ok := input.(*ReadTodosInput); !ok {
		return tool.Output{}, fmt.Errorf("invalid input type: %T", input)
	}
	todos := t.store.Read()
	return tool.Output{
		Content: formatTodos(todos),
		Display: tool.StructuredDisplay{Title: "Tasks", Data: todos},
	}, nil
}

// WriteTodosTool replaces the session task list. It only touches session state, so it is read-only
// as far as confirmation is concerned.
type WriteTodosTool struct {
	store todoStore
}

// NewWriteTodosTool creates a new WriteTodosTool.
func NewWriteTodosTool(store todoStore) *WriteTodosTool {
	return &WriteTodosTool{store: store}
}

func (t *WriteTodosTool) Declaration() tool.Declaration {
	return tool.Declaration{
		Name:        "write_todos",
		Description: "Replace the task list for this session. Send the full list every time; an empty list clears it.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"todos": {
					Type: tool.TypeArray,
					Items: &tool.Schema{
						Type: tool.TypeObject,
						Properties: map[string]*tool.Schema{
							"description": {Type: tool.TypeString},
							"status":      statusSchema,
						},
						Required: []string{"description", "status"},
					},
				},
			},
			Required: []string{"todos"},
		},
		ReadOnly: true,
	}
}

func (t *WriteTodosTool) Input() any { return &WriteTodosInput{} }

func (t *WriteTodosTool) Execute(_ context.Context, input any) (tool.Output, error) {
	req, ok := input.(*WriteTodosInput)
	if !ok {
		return tool.Output{}, fmt.Errorf("invalid input type: %T", input)
	}
	if err := req.validate(); err != nil {
		return tool.Output{}, tool.NewError(tool.CodeInvalidArguments, "", err)
	}
	t.store.Write(req.Todos)
	return tool.Output{
		Content: fmt.Sprintf("Saved %d tasks.\n%s", len(req.Todos), formatTodos(req.Todos)),
		Display: tool.StructuredDisplay{Title: "Tasks", Data: req.Todos},
	}, nil
}

func formatTodos(todos []Todo) string {
	if len(todos) == 0 {
		return "No tasks."
	}
	var b strings.Builder
	for i, todo := range todos {
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, todo.Status, todo.Description)
	}
	return b.String()
}
