package preview

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"google.golang.org/protobuf/types/known/structpb"
)

// maxCommandSize bounds one command line; documents travel inline.
const maxCommandSize = 32 << 20

// readCommands reads command JSON Lines from r and calls handle for each.
// Empty lines are skipped; invalid JSON lines are logged and skipped.
// Returns when the reader is exhausted (EOF) or context is cancelled.
func readCommands(ctx context.Context, r io.Reader, logger *slog.Logger, handle func(*structpb.Struct)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxCommandSize)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, err := UnmarshalCommand([]byte(line))
		if err != nil {
			logger.Warn("Invalid command JSON, skipping", "err", err)
			continue
		}
		handle(cmd)
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("stdin scanner error", "err", err)
	}
}

// Serve answers render requests read as JSON Lines from r, writing one
// event per request to w. Requests are handled concurrently; events carry
// the request id. Returns once r is exhausted and every request answered.
func Serve(ctx context.Context, r io.Reader, w io.Writer, svc *Service) {
	ew := NewEventWriter(w)
	var wg sync.WaitGroup
	readCommands(ctx, r, svc.Logger, func(cmd *structpb.Struct) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			handleCommand(ctx, svc, ew, cmd)
		}()
	})
	wg.Wait()
}

func handleCommand(ctx context.Context, svc *Service, ew *EventWriter, cmd *structpb.Struct) {
	id := cmd.GetFields()["id"].GetStringValue()

	event, err := respond(ctx, svc, cmd)
	if err != nil {
		svc.Logger.Warn("Request failed", "id", id, "err", err)
		event = errorEvent(id, err)
	}
	if err := ew.Send(event); err != nil {
		svc.Logger.Error("Writing event", "id", id, "err", err)
	}
}

func respond(ctx context.Context, svc *Service, cmd *structpb.Struct) (*structpb.Struct, error) {
	req, err := RequestFromStruct(cmd)
	if err != nil {
		return nil, err
	}
	resp, err := svc.Handle(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Struct()
}

func errorEvent(id string, err error) *structpb.Struct {
	fields := map[string]*structpb.Value{"error": structpb.NewStringValue(err.Error())}
	if id != "" {
		fields["id"] = structpb.NewStringValue(id)
	}
	return &structpb.Struct{Fields: fields}
}
