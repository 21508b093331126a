package bot

import (
	"context"
	"log"
	"sync/atomic"

	"github.com/glebk/lunch-buddy/internal/service"
	"golang.org/x/sync/errgroup"
)

// dispatch sends the private invitations of a confirmed round in parallel
// and returns how many were delivered. A failed delivery is logged and
// does not stop the others.
func (b *Bot) dispatch(ctx context.Context, d service.Dispatch) int {
	prompt := service.InvitationPrompt(d)

	g, ctx := errgroup.WithContext(ctx)
	if limit := b.config.DispatchConcurrency; limit > 0 {
		g.SetLimit(limit)
	}

	var delivered atomic.Int64
	for _, invitee := range d.Invitees {
		invitee := invitee
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if err := b.deliverPrompt(invitee.ID, prompt); err != nil {
				log.Printf("Error sending invitation to user %d: %v", invitee.ID, err)
				return nil
			}
			delivered.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	return int(delivered.Load())
}
