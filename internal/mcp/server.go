package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ldi/kanban/internal/board"
	"github.com/ldi/kanban/pkg/models"
)

// NewServer creates a new MCP server exposing the board.
func NewServer(manager *board.Manager, version string) *server.MCPServer {
	s := server.NewMCPServer("Kanban", version)

	columnIDs := make([]string, 0, len(models.Columns))
	for _, c := range models.Columns {
		columnIDs = append(columnIDs, string(c.ID))
	}

	s.AddTool(mcp.NewTool("list_columns",
		mcp.WithDescription("List the board columns with their tasks, in display order."),
	), listColumnsHandler(manager))

	s.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List all tasks in board order, optionally filtered by column."),
		mcp.WithString("column_id", mcp.Description("Only return tasks in this column"), mcp.Enum(columnIDs...)),
	), listTasksHandler(manager))

	s.AddTool(mcp.NewTool("add_task",
		mcp.WithDescription("Add a task. New tasks always start in the todo column."),
		mcp.WithString("title", mcp.Description("Task title (must not be blank)"), mcp.Required()),
		mcp.WithString("description", mcp.Description("Optional description")),
	), addTaskHandler(manager))

	s.AddTool(mcp.NewTool("move_task",
		mcp.WithDescription("Move a task to another column. It is placed after the tasks already there."),
		mcp.WithString("id", mcp.Description("Task ID"), mcp.Required()),
		mcp.WithString("column_id", mcp.Description("Target column"), mcp.Required(), mcp.Enum(columnIDs...)),
	), moveTaskHandler(manager))

	s.AddTool(mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task. Deleting an unknown ID does nothing."),
		mcp.WithString("id", mcp.Description("Task ID"), mcp.Required()),
	), deleteTaskHandler(manager))

	return s
}

// Serve starts the MCP server on stdio.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func listColumnsHandler(manager *board.Manager) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(map[string]any{"columns": manager.Lanes()})
	}
}

func listTasksHandler(manager *board.Manager) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tasks := manager.Tasks()

		if col := mcp.ParseString(request, "column_id", ""); col != "" {
			id, ok := models.ParseColumnID(col)
			if !ok {
				return mcp.NewToolResultError(fmt.Sprintf("Unknown column '%s'", col)), nil
			}
			filtered := make([]models.Task, 0, len(tasks))
			for _, t := range tasks {
				if t.ColumnID == id {
					filtered = append(filtered, t)
				}
			}
			tasks = filtered
		}

		return jsonResult(map[string]any{"tasks": tasks})
	}
}

func addTaskHandler(manager *board.Manager) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title := mcp.ParseString(request, "title", "")
		description := mcp.ParseString(request, "description", "")

		if strings.TrimSpace(title) == "" {
			return mcp.NewToolResultError("Title cannot be empty."), nil
		}

		task, ok := manager.CreateTask(ctx, title, description)
		if !ok {
			return mcp.NewToolResultError("Title cannot be empty."), nil
		}
		return jsonResult(map[string]any{"task": task})
	}
}

func moveTaskHandler(manager *board.Manager) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")
		col := mcp.ParseString(request, "column_id", "")

		target, ok := models.ParseColumnID(col)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("Unknown column '%s'", col)), nil
		}
		if _, ok := manager.Task(id); !ok {
			return mcp.NewToolResultText(fmt.Sprintf("No task with ID '%s'; nothing moved.", id)), nil
		}

		manager.MoveTask(ctx, id, target)
		return mcp.NewToolResultText(fmt.Sprintf("Task '%s' is in %s.", id, target)), nil
	}
}

func deleteTaskHandler(manager *board.Manager) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")
		if _, ok := manager.Task(id); !ok {
			return mcp.NewToolResultText(fmt.Sprintf("No task with ID '%s'; nothing deleted.", id)), nil
		}
		manager.DeleteTask(ctx, id)
		return mcp.NewToolResultText(fmt.Sprintf("Task '%s' deleted.", id)), nil
	}
}
