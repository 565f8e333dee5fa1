// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/streak-cli/internal/domain"
	"github.com/xvierd/streak-cli/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server *server.MCPServer
	store  ports.RecordStore
	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(store ports.RecordStore, version string) *Server {
	s := &Server{
		store: store,
	}

	// Create the MCP server
	s.server = server.NewMCPServer(
		"streak",
		version,
		server.WithLogging(),
	)

	// Register tools
	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	// Tool: get_state
	s.server.AddTool(
		mcp.NewTool(
			"get_state",
			mcp.WithDescription("Get all tasks and habits with today's habit progress"),
		),
		s.handleGetState,
	)

	// Tool: add_task
	addTaskTool := mcp.NewTool(
		"add_task",
		mcp.WithDescription("Add a new open task"),
		mcp.WithString(
			"text",
			mcp.Required(),
			mcp.Description("The task text"),
		),
	)
	s.server.AddTool(addTaskTool, s.handleAddTask)

	// Tool: toggle_task
	toggleTaskTool := mcp.NewTool(
		"toggle_task",
		mcp.WithDescription("Flip a task between open and done"),
		mcp.WithString(
			"id",
			mcp.Required(),
			mcp.Description("The ID of the task"),
		),
	)
	s.server.AddTool(toggleTaskTool, s.handleToggleTask)

	// Tool: delete_task
	deleteTaskTool := mcp.NewTool(
		"delete_task",
		mcp.WithDescription("Delete a task. An unknown id is not an error and reports deleted=false"),
		mcp.WithString(
			"id",
			mcp.Required(),
			mcp.Description("The ID of the task"),
		),
	)
	s.server.AddTool(deleteTaskTool, s.handleDeleteTask)

	// Tool: add_habit
	addHabitTool := mcp.NewTool(
		"add_habit",
		mcp.WithDescription("Add a new daily habit"),
		mcp.WithString(
			"name",
			mcp.Required(),
			mcp.Description("The habit name"),
		),
	)
	s.server.AddTool(addHabitTool, s.handleAddHabit)

	// Tool: delete_habit
	deleteHabitTool := mcp.NewTool(
		"delete_habit",
		mcp.WithDescription("Delete a habit and its completion history. An unknown id reports deleted=false"),
		mcp.WithString(
			"id",
			mcp.Required(),
			mcp.Description("The ID of the habit"),
		),
	)
	s.server.AddTool(deleteHabitTool, s.handleDeleteHabit)

	// Tool: set_habit_today
	setHabitTodayTool := mcp.NewTool(
		"set_habit_today",
		mcp.WithDescription("Mark or unmark a habit as completed today"),
		mcp.WithString(
			"id",
			mcp.Required(),
			mcp.Description("The ID of the habit"),
		),
		mcp.WithBoolean(
			"completed",
			mcp.Description("true to mark today as done (default), false to unmark"),
		),
	)
	s.server.AddTool(setHabitTodayTool, s.handleSetHabitToday)

	// Tool: clear_all
	clearAllTool := mcp.NewTool(
		"clear_all",
		mcp.WithDescription("Delete every task and habit. Requires confirm=true"),
		mcp.WithBoolean(
			"confirm",
			mcp.Required(),
			mcp.Description("Must be true to proceed"),
		),
	)
	s.server.AddTool(clearAllTool, s.handleClearAll)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	// Start the stdio server
	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

// handleGetState handles the get_state tool.
func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state := s.store.Snapshot()
	today := s.store.Today()
	progress := state.ProgressOn(today)

	tasks := make([]map[string]interface{}, 0, len(state.Tasks))
	for _, t := range domain.SortForDisplay(state.Tasks) {
		tasks = append(tasks, taskResult(t))
	}
	habits := make([]map[string]interface{}, 0, len(state.Habits))
	for _, h := range state.Habits {
		habits = append(habits, habitResult(h, today))
	}

	result := map[string]interface{}{
		"today":  today,
		"tasks":  tasks,
		"habits": habits,
		"progress": map[string]interface{}{
			"done":  progress.Done,
			"total": progress.Total,
			"ratio": progress.Ratio(),
		},
	}
	return jsonResult(result, "state")
}

// handleAddTask handles the add_task tool.
func (s *Server) handleAddTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required: " + err.Error()), nil
	}

	task, err := s.store.AddTask(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add task: %v", err)), nil
	}
	if task == nil {
		return mcp.NewToolResultError("text must not be blank"), nil
	}

	return jsonResult(taskResult(task), "task")
}

// handleToggleTask handles the toggle_task tool.
func (s *Server) handleToggleTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required: " + err.Error()), nil
	}

	task, err := s.store.ToggleTask(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to toggle task: %v", err)), nil
	}
	if task == nil {
		return mcp.NewToolResultError(fmt.Sprintf("%v: %s", domain.ErrTaskNotFound, id)), nil
	}

	return jsonResult(taskResult(task), "task")
}

// handleDeleteTask handles the delete_task tool.
func (s *Server) handleDeleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required: " + err.Error()), nil
	}

	found, err := s.store.DeleteTask(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete task: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{"id": id, "deleted": found}, "result")
}

// handleAddHabit handles the add_habit tool.
func (s *Server) handleAddHabit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required: " + err.Error()), nil
	}

	habit, err := s.store.AddHabit(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add habit: %v", err)), nil
	}
	if habit == nil {
		return mcp.NewToolResultError("name must not be blank"), nil
	}

	return jsonResult(habitResult(habit, s.store.Today()), "habit")
}

// handleDeleteHabit handles the delete_habit tool.
func (s *Server) handleDeleteHabit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required: " + err.Error()), nil
	}

	found, err := s.store.DeleteHabit(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete habit: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{"id": id, "deleted": found}, "result")
}

// handleSetHabitToday handles the set_habit_today tool.
func (s *Server) handleSetHabitToday(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required: " + err.Error()), nil
	}
	completed := request.GetBool("completed", true)

	habit, err := s.store.SetHabitToday(ctx, id, completed)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update habit: %v", err)), nil
	}
	if habit == nil {
		return mcp.NewToolResultError(fmt.Sprintf("%v: %s", domain.ErrHabitNotFound, id)), nil
	}

	return jsonResult(habitResult(habit, s.store.Today()), "habit")
}

// handleClearAll handles the clear_all tool.
func (s *Server) handleClearAll(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !request.GetBool("confirm", false) {
		return mcp.NewToolResultError("refusing to clear all data without confirm=true"), nil
	}

	if err := s.store.ClearAll(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to clear data: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{"cleared": true}, "result")
}

func taskResult(t *domain.Task) map[string]interface{} {
	return map[string]interface{}{
		"id":         t.ID,
		"text":       t.Text,
		"done":       t.Done,
		"created_at": t.CreatedAt.Format(time.RFC3339),
	}
}

func habitResult(h *domain.Habit, today string) map[string]interface{} {
	todayTime, err := domain.ParseDate(today)
	if err != nil {
		todayTime = time.Now()
	}
	return map[string]interface{}{
		"id":              h.ID,
		"name":            h.Name,
		"created_at":      h.CreatedAt.Format(time.RFC3339),
		"completed_today": h.IsCompletedOn(today),
		"streak":          h.CurrentStreak(todayTime),
		"completed_dates": h.SortedDates(false),
	}
}

func jsonResult(v interface{}, what string) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", what, err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
