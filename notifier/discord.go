package notifier

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"footy/dispatch"
)

// DiscordNotifier delivers reminders as Discord direct messages. It maps
// discordgo errors onto the dispatch outcome taxonomy so the queue can apply
// its retry policy without knowing anything about Discord.
type DiscordNotifier struct {
	session *discordgo.Session
}

// NewDiscordNotifier creates a notifier from a bot token
func NewDiscordNotifier(token string) (*DiscordNotifier, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	return &DiscordNotifier{session: session}, nil
}

// NewDiscordNotifierWithSession wraps an existing session
func NewDiscordNotifierWithSession(session *discordgo.Session) *DiscordNotifier {
	return &DiscordNotifier{session: session}
}

// Send delivers payload to the recipient's DM channel
func (n *DiscordNotifier) Send(ctx context.Context, recipientID int64, payload string) error {
	channel, err := n.session.UserChannelCreate(strconv.FormatInt(recipientID, 10), discordgo.WithContext(ctx))
	if err != nil {
		return classify(err)
	}

	if _, err := n.session.ChannelMessageSend(channel.ID, payload, discordgo.WithContext(ctx)); err != nil {
		return classify(err)
	}

	return nil
}

// classify translates a discordgo error into the dispatch taxonomy.
// Anything unrecognized stays as-is and is treated as transient.
func classify(err error) error {
	var rl *discordgo.RateLimitError
	if errors.As(err, &rl) {
		return &dispatch.RateLimitedError{RetryAfter: rl.RetryAfter}
	}

	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Message != nil {
		switch rest.Message.Code {
		case discordgo.ErrCodeCannotSendMessagesToThisUser,
			discordgo.ErrCodeMissingAccess,
			discordgo.ErrCodeMissingPermissions:
			return &dispatch.PermanentError{Err: err}
		}
	}

	return err
}
