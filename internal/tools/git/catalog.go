package git

import "github.com/fyrsmithlabs/gitbot/internal/tools"

// Tool names served by this backend.
const (
	ToolInit         = "local_git_init"
	ToolStatus       = "local_git_status"
	ToolAdd          = "local_git_add"
	ToolCommit       = "local_git_commit"
	ToolLog          = "local_git_log"
	ToolRemoteAdd    = "local_git_remote_add"
	ToolPush         = "local_git_push"
	ToolBranchDelete = "local_git_branch_delete"
)

var pathParam = tools.Parameter{
	Name:        "path",
	Type:        "string",
	Description: "Path to the repository (default: current directory).",
}

// Specs returns the local tool catalog in presentation order.
//
// Destructive policy: push and branch deletion rewrite or remove state that
// is not trivially recoverable from the working tree, so they require
// confirmation. init, add, commit, log, status, and remote_add are
// reversible with ordinary git commands and pass through the gate.
func Specs() []tools.ToolSpec {
	return []tools.ToolSpec{
		{
			Name:        ToolInit,
			Description: "Initialize a new local git repository.",
			Parameters:  []tools.Parameter{pathParam},
			Backend:     tools.BackendLocal,
		},
		{
			Name:        ToolStatus,
			Description: "Show the working tree status.",
			Parameters:  []tools.Parameter{pathParam},
			Backend:     tools.BackendLocal,
		},
		{
			Name:        ToolAdd,
			Description: "Add file contents to the staging area.",
			Parameters: []tools.Parameter{
				{
					Name:        "files",
					Type:        "array",
					Description: `List of files to add (e.g. ["main.go", "."]).`,
					Required:    true,
				},
				pathParam,
			},
			Backend: tools.BackendLocal,
		},
		{
			Name:        ToolCommit,
			Description: "Record staged changes to the repository.",
			Parameters: []tools.Parameter{
				{
					Name:        "message",
					Type:        "string",
					Description: "The commit message.",
					Required:    true,
				},
				pathParam,
			},
			Backend: tools.BackendLocal,
		},
		{
			Name:        ToolLog,
			Description: "Show recent commit history.",
			Parameters: []tools.Parameter{
				{
					Name:        "n",
					Type:        "integer",
					Description: "Number of commits to show (default: 10).",
				},
				pathParam,
			},
			Backend: tools.BackendLocal,
		},
		{
			Name:        ToolRemoteAdd,
			Description: "Add a remote repository.",
			Parameters: []tools.Parameter{
				{
					Name:        "name",
					Type:        "string",
					Description: `Name of the remote (e.g. "origin").`,
					Required:    true,
				},
				{
					Name:        "url",
					Type:        "string",
					Description: "URL of the remote.",
					Required:    true,
				},
				pathParam,
			},
			Backend: tools.BackendLocal,
		},
		{
			Name:        ToolPush,
			Description: "Update remote refs along with associated objects.",
			Parameters: []tools.Parameter{
				{
					Name:        "remote",
					Type:        "string",
					Description: `Remote name (default: "origin").`,
				},
				{
					Name:        "branch",
					Type:        "string",
					Description: `Branch name (default: "main").`,
				},
				pathParam,
			},
			Destructive: true,
			Backend:     tools.BackendLocal,
		},
		{
			Name:        ToolBranchDelete,
			Description: "Delete a local branch.",
			Parameters: []tools.Parameter{
				{
					Name:        "branch",
					Type:        "string",
					Description: "Name of the branch to delete.",
					Required:    true,
				},
				{
					Name:        "force",
					Type:        "boolean",
					Description: "Delete even if the branch is not fully merged.",
				},
				pathParam,
			},
			Destructive: true,
			Backend:     tools.BackendLocal,
		},
	}
}
