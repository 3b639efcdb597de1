// Package onboard implements the first-run setup wizard. It collects the
// GitHub credential, verifies it against the GitHub API, picks the LLM
// provider and model, and writes the config file that chat sessions load.
package onboard
