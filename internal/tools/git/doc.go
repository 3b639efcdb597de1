// Package git implements the local execution backend. It translates tool
// calls into invocations of the git binary in the working directory,
// captures exit status and output, and folds every failure into a
// ToolResult so the agent loop can surface it to the LLM instead of
// crashing the session.
//
// Repository detection uses go-git; mutations always go through the real
// git binary so behavior matches what the user would get on their own
// shell.
package git
