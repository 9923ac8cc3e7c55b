package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/gustavoln/financeiro-client/internal/analysis"
	"github.com/gustavoln/financeiro-client/internal/domain/chat"
	"github.com/gustavoln/financeiro-client/internal/domain/model"
)

// RunChat reads messages from in and answers them through the service,
// attaching the current analysis as context. An empty line ends the loop.
func RunChat(ctx context.Context, svc analysis.Service, current func() *model.AnalysisResult, in io.Reader) {
	fmt.Println("\nChat session. Empty line to quit.")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			return
		}

		reply, err := svc.SendChatMessage(ctx, message, snapshotOf(current()))
		if err != nil {
			PrintError("chat failed: %v", err)
			continue
		}
		fmt.Println(reply.Message)
		for _, suggestion := range reply.Suggestions {
			color.Cyan("  - %s", suggestion)
		}
	}
}

// snapshotOf builds the bounded chat context from the active result, or nil
// when nothing was analyzed yet.
func snapshotOf(result *model.AnalysisResult) *chat.Context {
	if result == nil {
		return nil
	}
	insights := chat.InsightsFromSummary(result.Summary)
	return chat.BuildContext(result.Transactions, &result.Summary, &insights)
}
