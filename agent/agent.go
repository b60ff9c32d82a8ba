// Package agent implements the optional AI assistant of the terminal: a
// Gemini chat session primed with the rendered portfolio reports.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

const model = "gemini-2.0-flash"

// Advisor is the AI assistant that handles the chat session. It is given
// the portfolio reports up front and answers follow-up questions about
// them; it has no access to the account itself.
type Advisor struct {
	w    io.Writer
	r    *bufio.Reader
	chat *genai.Chat
}

// New creates a new Advisor writing to w and reading user input from r.
func New(w io.Writer, r io.Reader) *Advisor {
	return &Advisor{w: w, r: bufio.NewReader(r)}
}

const systemPrompt = `You are the assistant of TradeLab, a simulated stock
portfolio terminal. You are given the user's current portfolio, risk and
insights reports in markdown. Answer questions about them concisely. The
money is simulated; never present your answers as financial advice.`

// Start creates the chat session, priming it with the reports.
func (a *Advisor) Start(ctx context.Context, client *genai.Client, reports string) error {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	}
	chat, err := client.Chats.Create(ctx, model, config, nil)
	if err != nil {
		return err
	}
	a.chat = chat

	_, err = a.ask(ctx, "Here are my current reports:\n\n"+reports+
		"\n\nAcknowledge in one short sentence.")
	return err
}

// ask sends one message and returns the text of the first candidate.
func (a *Advisor) ask(ctx context.Context, question string) (string, error) {
	resp, err := a.chat.Send(ctx, &genai.Part{Text: question})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from the advisor")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

const prompt = "assist> "

// Run starts the interactive REPL session for the advisor.
func (a *Advisor) Run(ctx context.Context, client *genai.Client, reports string, prompts ...string) error {
	if a.chat == nil {
		if err := a.Start(ctx, client, reports); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Welcome to TradeLab assist. Type 'bye' to exit.")

	for {
		fmt.Fprint(a.w, prompt)
		var input string

		// Flush prompts from the list and then ask the user.
		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			input = strings.TrimSpace(input)
			fmt.Fprintln(a.w, input)
		} else {
			line, err := a.r.ReadString('\n')
			if err != nil {
				return nil
			}
			input = strings.TrimSpace(line)
		}

		if input == "" {
			continue
		}
		if strings.EqualFold(input, "bye") {
			fmt.Fprintln(a.w, "Goodbye.")
			return nil
		}

		answer, err := a.ask(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.w, answer)
	}
}
