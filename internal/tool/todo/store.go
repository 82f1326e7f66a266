package todo

import "sync"

// InMemoryTodoStore keeps the session's task list in memory.
type InMemoryTodoStore struct {
	todos []Todo
	mu    sync.RWMutex
}

// NewInMemoryTodoStore creates a new instance of InMemoryTodoStore.
func NewInMemoryTodoStore() *InMemoryTodoStore {
	return &InMemoryTodoStore{
		todos: make([]Todo, 0),
	}
}

// Read returns a copy of the current list.
func (s *InMemoryTodoStore) Read() []Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Todo, len(s.todos))
	copy(result, s.todos)
	return result
}

// Write replaces the list.
func (s *InMemoryTodoStore) Write(todos []Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = make([]Todo, len(todos))
	copy(s.todos, todos)
}
