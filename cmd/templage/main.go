// Command templage fills multilingual message templates.
package main

import "github.com/opencode-ai/templage/internal/cli"

func main() {
	cli.Execute()
}
