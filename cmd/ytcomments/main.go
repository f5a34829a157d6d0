package main

import (
	"ytcomments/cmd/ytcomments/commands"
	"ytcomments/internal/serviceutil"
)

func main() {
	ctx, cancel := serviceutil.SignalContext()
	defer cancel()
	commands.ExecuteContext(ctx)
}
