// Package transcript converts scripted dialog text into the sequence of
// activities a conversation transcript is made of.
package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// messageGap is the virtual time between consecutive activities.
const messageGap = 2 * time.Second

// timestampLayout renders activity timestamps with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	directiveRe   = regexp.MustCompile(`^(user|bot|channelId)=(.+)$`)
	speakerRe     = regexp.MustCompile(`^([A-Za-z0-9_-]+):\s?(.*)$`)
	instructionRe = regexp.MustCompile(`\[(Typing|Delay=(\d+))\]`)
	// A line made only of instruction tokens carries no message text.
	instructionLineRe = regexp.MustCompile(`^(\s*\[(Typing|Delay=\d+)\]\s*)+$`)
)

// Options tunes a conversion run. The zero value uses the wall clock and
// random IDs; tests inject both.
type Options struct {
	BaseTime time.Time     // virtual clock start; zero means now
	NewID    func() string // ID source; nil means random UUIDs
}

// Parse converts a dialog script into its activity sequence.
//
// Lines of the form "user=Name", "bot=Name" and "channelId=x" before the
// first turn configure the participants. A turn starts with a speaker
// prefix, either a role keyword or a configured name, compared without
// case. Later lines without a prefix continue the current message.
// "[Typing]" and "[Delay=<ms>]" lines emit a typing activity and advance
// the virtual clock. Blank lines separate nothing and are skipped.
func Parse(script string, opts Options) ([]Activity, error) {
	p := newParser(opts)
	for i, line := range strings.Split(script, "\n") {
		if err := p.feed(i+1, line); err != nil {
			return nil, err
		}
	}
	p.flush()
	return p.activities, nil
}

type parser struct {
	user      ChannelAccount
	bot       ChannelAccount
	channelID string

	clock        time.Time
	newID        func() string
	conversation ConversationAccount

	speaker    *ChannelAccount // nil until the first turn
	pending    []string        // message lines of the current turn
	activities []Activity
}

func newParser(opts Options) *parser {
	base := opts.BaseTime
	if base.IsZero() {
		base = time.Now().UTC()
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &parser{
		user:         account("User", RoleUser),
		bot:          account("Bot", RoleBot),
		channelID:    DefaultChannelID,
		clock:        base,
		newID:        newID,
		conversation: ConversationAccount{ID: newID()},
		activities:   []Activity{},
	}
}

func account(name, role string) ChannelAccount {
	return ChannelAccount{ID: strings.ToLower(name), Name: name, Role: role}
}

func (p *parser) feed(lineNo int, line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	if p.speaker == nil {
		if m := directiveRe.FindStringSubmatch(trimmed); m != nil {
			p.applyDirective(m[1], strings.TrimSpace(m[2]))
			return nil
		}
	}

	if m := speakerRe.FindStringSubmatch(trimmed); m != nil {
		if who := p.matchSpeaker(m[1]); who != nil {
			p.flush()
			p.speaker = who
			if rest := strings.TrimSpace(m[2]); rest != "" {
				p.consume(rest)
			}
			return nil
		}
	}

	if p.speaker == nil {
		return fmt.Errorf("line %d: text occurs before any speaker turn", lineNo)
	}

	p.consume(trimmed)
	return nil
}

// consume handles one line of turn content: instruction lines act on the
// transcript, anything else extends the current message.
func (p *parser) consume(text string) {
	if instructionLineRe.MatchString(text) {
		p.flush()
		for _, m := range instructionRe.FindAllStringSubmatch(text, -1) {
			if m[1] == "Typing" {
				p.emit(ActivityTyping, "")
			} else {
				ms, _ := strconv.Atoi(m[2])
				p.clock = p.clock.Add(time.Duration(ms) * time.Millisecond)
			}
		}
		return
	}
	p.pending = append(p.pending, text)
}

func (p *parser) applyDirective(key, value string) {
	switch key {
	case "user":
		p.user = account(value, RoleUser)
	case "bot":
		p.bot = account(value, RoleBot)
	case "channelId":
		p.channelID = value
	}
}

// matchSpeaker resolves a turn prefix to a participant, accepting the role
// keyword and the configured display name interchangeably.
func (p *parser) matchSpeaker(prefix string) *ChannelAccount {
	switch strings.ToLower(prefix) {
	case RoleUser, strings.ToLower(p.user.Name):
		return &p.user
	case RoleBot, strings.ToLower(p.bot.Name):
		return &p.bot
	}
	return nil
}

// flush turns the accumulated message lines into a message activity.
func (p *parser) flush() {
	if len(p.pending) == 0 {
		return
	}
	text := strings.Join(p.pending, "\n")
	p.pending = nil
	p.emit(ActivityMessage, text)
}

func (p *parser) emit(activityType, text string) {
	from, recipient := p.bot, p.user
	if p.speaker.Role == RoleUser {
		from, recipient = p.user, p.bot
	}
	p.activities = append(p.activities, Activity{
		Type:         activityType,
		ID:           p.newID(),
		Timestamp:    p.clock.UTC().Format(timestampLayout),
		ChannelID:    p.channelID,
		From:         from,
		Recipient:    recipient,
		Conversation: p.conversation,
		Text:         text,
	})
	p.clock = p.clock.Add(messageGap)
}
