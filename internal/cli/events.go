package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shaiso/Iguana/internal/mq"
)

func newEventsCmd(a *app) *cobra.Command {
	var queue string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail run and job events from RabbitMQ",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := a.output(cmd)

			conn, err := mq.NewConnection(a.cfg.RabbitMQURL, a.logger)
			if err != nil {
				return fmt.Errorf("connect to RabbitMQ: %w", err)
			}
			defer conn.Close()

			q := mq.Queue(queue)
			if err := mq.DeclareQueue(ctx, conn, q); err != nil {
				return err
			}

			consumer := mq.NewConsumer(conn, a.logger, mq.ConsumerConfig{
				Queue: q,
				Handler: func(_ context.Context, msg *mq.Message) error {
					if out.jsonMode {
						out.JSON(msg)
						return nil
					}
					line, err := formatEvent(msg, out)
					if err != nil {
						return err
					}
					fmt.Fprintln(out.w, line)
					return nil
				},
			})

			err = consumer.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&queue, "queue", string(mq.QueueJobs), "Queue to consume events from")

	return cmd
}

// formatEvent превращает событие в одну строку для терминала.
func formatEvent(msg *mq.Message, out *Output) (string, error) {
	ts := msg.Timestamp.Format("15:04:05")

	switch msg.Type {
	case mq.MessageTypeJobFinished:
		p, err := mq.ParsePayload[mq.JobPayload](msg)
		if err != nil {
			return "", err
		}
		line := fmt.Sprintf("%s %-12s %s/%s %s %s", ts, msg.Type, p.Workflow, p.Job, out.Status(p.Status), formatDuration(p.DurationMS))
		if p.Error != "" {
			line += ": " + p.Error
		}
		return line, nil

	case mq.MessageTypeRunStarted, mq.MessageTypeRunFinished:
		p, err := mq.ParsePayload[mq.RunPayload](msg)
		if err != nil {
			return "", err
		}
		line := fmt.Sprintf("%s %-12s %s %s %s", ts, msg.Type, p.Workflow, p.RunID, out.Status(p.Status))
		if len(p.FailedJobs) > 0 {
			line += " failed=" + strings.Join(p.FailedJobs, ",")
		}
		if p.Error != "" {
			line += ": " + p.Error
		}
		return line, nil

	default:
		return fmt.Sprintf("%s %-12s %v", ts, msg.Type, msg.Payload), nil
	}
}
