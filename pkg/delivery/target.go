package delivery

import (
	"strings"
)

// Kind distinguishes channel targets from direct-message recipients.
type Kind string

const (
	KindChannel       Kind = "channel"
	KindDirectMessage Kind = "dm"
)

// Target is one delivery destination.
type Target struct {
	Kind Kind
	ID   string
}

// Channel returns a channel target.
func Channel(id string) Target {
	return Target{Kind: KindChannel, ID: id}
}

// DirectMessage returns a direct-message target.
func DirectMessage(userID string) Target {
	return Target{Kind: KindDirectMessage, ID: userID}
}

func (t Target) String() string {
	return string(t.Kind) + ":" + t.ID
}

// Targets derives the target set from configuration: the channel first when set,
// then one direct message per user in list order. Blank and repeated ids are skipped.
func Targets(channelID string, userIDs []string) []Target {
	targets := make([]Target, 0, len(userIDs)+1)
	if id := strings.TrimSpace(channelID); id != "" {
		targets = append(targets, Channel(id))
	}

	seen := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		targets = append(targets, DirectMessage(id))
	}
	return targets
}
