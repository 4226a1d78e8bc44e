package commands

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shokoauto/notifybridge/pkg/controlapi"
	"github.com/shokoauto/notifybridge/pkg/i18n"
	"github.com/shokoauto/notifybridge/pkg/notification"
)

// maxEmbedFields is the chat platform's per-message field limit.
const maxEmbedFields = 25

func runMissing(ctx context.Context, c *call) (notification.Record, error) {
	list, err := c.api.Missing(ctx, c.limit)
	if err != nil {
		return errorRecord(c, "discord.cmd.missing", err), err
	}
	return missingRecord(c, list.Episodes), nil
}

func missingRecord(c *call, episodes []controlapi.Episode) notification.Record {
	if len(episodes) == 0 {
		return notification.New(c.t("discord.cmd.missing.title_none"),
			notification.WithType("command.missing"),
			notification.WithColor(notification.ColorSuccess),
			notification.WithDescription(c.t("discord.cmd.missing.desc_none")),
		)
	}

	shown := episodes
	if c.limit > 0 && len(shown) > c.limit {
		shown = shown[:c.limit]
	}

	prefix := c.t("discord.cmd.missing.series_prefix")
	fields := make([]notification.Field, 0, min(len(shown), maxEmbedFields))
	for _, g := range groupBySeries(shown) {
		if len(fields) == maxEmbedFields {
			break
		}
		fields = append(fields, notification.Block(prefix+" "+g.series, episodeList(g.episodes)))
	}

	return notification.New(c.t("discord.cmd.missing.title", i18n.Params{"count": len(episodes)}),
		notification.WithType("command.missing"),
		notification.WithColor(notification.ColorWarning),
		notification.WithFooter(c.t("discord.cmd.missing.footer", i18n.Params{"limit": c.limit})),
		notification.WithFields(fields...),
	)
}

type seriesGroup struct {
	series   string
	episodes []int
}

// groupBySeries keeps series in first-seen order.
func groupBySeries(episodes []controlapi.Episode) []seriesGroup {
	var groups []seriesGroup
	index := make(map[string]int)
	for _, ep := range episodes {
		name := seriesName(ep.Series)
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, seriesGroup{series: name})
		}
		groups[i].episodes = append(groups[i].episodes, ep.Episode)
	}
	return groups
}

func episodeList(numbers []int) string {
	sorted := slices.Clone(numbers)
	slices.Sort(sorted)
	parts := make([]string, len(sorted))
	for i, n := range sorted {
		parts[i] = fmt.Sprintf("E%02d", n)
	}
	return strings.Join(parts, ", ")
}
