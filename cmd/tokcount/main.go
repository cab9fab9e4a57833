// tokcount CLI entry point
//
// tokcount counts the tokens a piece of text uses with OpenAI (offline),
// Anthropic or Gemini models, and can estimate the input cost.
package main

import "github.com/jbctechsolutions/tokcount/internal/presentation/cli/commands"

func main() {
	commands.Execute()
}
