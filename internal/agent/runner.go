// Package agent implements the LLM ↔ tool iteration loop that answers
// chemistry questions with the registered tools.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/chemclerk/chemclerk/internal/config"
	"github.com/chemclerk/chemclerk/internal/schema"
	"github.com/chemclerk/chemclerk/internal/shared/llmutils"
	"github.com/chemclerk/chemclerk/internal/tools"
)

const systemPrompt = "You are an expert chemist. Your task is to use the provided tools and " +
	"respond to the input question to the best of your ability.\n\n" +
	"Guidelines:\n" +
	"- You should call tools to solve the problem, especially when you are not sure about " +
	"certain things and when tools can help.\n" +
	"- Molecules and compounds are referred to by SMILES, IUPAC name or common name; pass " +
	"each tool the representation its description asks for.\n" +
	"- Only provide the final answer after you have gathered all necessary information using tools."

// Runner executes the LLM ↔ tool loop over the tool registry.
type Runner struct {
	provider schema.LLMProvider
	registry *tools.Registry
	settings config.AgentDefaults
}

// NewRunner creates a Runner.
func NewRunner(provider schema.LLMProvider, registry *tools.Registry, settings config.AgentDefaults) *Runner {
	return &Runner{provider: provider, registry: registry, settings: settings}
}

// Answer runs the loop for a single question and returns the final response.
// onProgress, when non-nil, receives partial text and tool-call hints.
func (r *Runner) Answer(ctx context.Context, question string, onProgress func(string)) (string, error) {
	conversation := schema.NewMessages()
	conversation.AddSystem(systemPrompt)
	conversation.AddUser(question)

	tls := r.registry.GetAll()
	defs := tls.Definitions()
	opts := schema.NewChatOptions(r.settings.Model, r.settings.MaxTokens, r.settings.Temperature)

	maxIter := r.settings.MaxToolIter
	if maxIter <= 0 {
		maxIter = 15
	}

	for i := 0; i < maxIter; i++ {
		resp, err := r.provider.Chat(ctx, conversation, defs, opts)
		if err != nil {
			return "", fmt.Errorf("chat: %w", err)
		}

		if len(resp.ToolCalls) == 0 {
			content := ""
			if resp.Content != nil {
				content = *resp.Content
			}
			return llmutils.StripThink(content), nil
		}

		if onProgress != nil {
			if resp.Content != nil {
				if clean := llmutils.StripThink(*resp.Content); clean != "" {
					onProgress(clean)
				}
			}
			onProgress(llmutils.ToolHint(resp.ToolCalls))
		}

		var toolCalls []schema.ToolCall
		for _, tc := range resp.ToolCalls {
			toolCalls = append(toolCalls, schema.ToolCall{ID: tc.ID, Name: tc.Name, Arguments: tc.Arguments})
		}
		conversation.AddAssistant(resp.Content, toolCalls)

		for _, tc := range resp.ToolCalls {
			argsJSON, _ := json.Marshal(tc.Arguments)
			slog.Info("tool call", "name", tc.Name, "args", llmutils.Truncate(string(argsJSON), 200))

			var result string
			if t := tls.Get(tc.Name); t != nil {
				result, err = t.Execute(ctx, tc.Arguments)
				if err != nil {
					result = fmt.Sprintf("Error: the %s tool failed: %v", tc.Name, err)
				}
			} else {
				result = fmt.Sprintf("Error: Tool '%s' not found", tc.Name)
			}

			conversation.AddToolResult(tc.ID, tc.Name, result)
		}
	}

	return "I've reached the maximum number of tool iterations without a final answer.", nil
}
