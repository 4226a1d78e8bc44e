package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shokoauto/notifybridge/pkg/controlapi"
	"github.com/shokoauto/notifybridge/pkg/i18n"
	"github.com/shokoauto/notifybridge/pkg/notification"
)

// maxSearchDetails caps the detail lines shown for a finished search.
const maxSearchDetails = 5

func runSearch(ctx context.Context, c *call) (notification.Record, error) {
	c.report(ctx, searchStartedRecord(c))

	res, err := c.api.Search(ctx, c.limit)
	if err != nil {
		return errorRecord(c, "discord.cmd.search", err), err
	}
	return searchResultRecord(c, res), nil
}

func searchStartedRecord(c *call) notification.Record {
	limit := strconv.Itoa(c.limit)
	if c.limit == 0 {
		limit = c.t("discord.cmd.search.all_episodes")
	}
	return notification.New(c.t("discord.cmd.search.title_started"),
		notification.WithType("command.search.started"),
		notification.WithColor(notification.ColorInfo),
		notification.WithDescription(c.t("discord.cmd.search.desc_started", i18n.Params{"limit": limit})),
	)
}

func searchResultRecord(c *call, res controlapi.SearchResult) notification.Record {
	// The API may acknowledge the search and run it in the background.
	if res.Status == "started" && res.Processed == 0 && len(res.Details) == 0 {
		return notification.New(c.t("discord.cmd.search.title_accepted"),
			notification.WithType("command.search"),
			notification.WithColor(notification.ColorInfo),
			notification.WithDescription(res.Message),
		)
	}

	duration := res.Duration.String()
	if duration == "" {
		duration = "N/A"
	}

	fields := []notification.Field{
		notification.Inline(c.t("discord.cmd.search.episodes_processed"), strconv.Itoa(res.Processed)),
		notification.Inline(c.t("discord.cmd.search.torrents_added"), strconv.Itoa(res.Added)),
		notification.Inline(c.t("discord.cmd.search.not_found"), strconv.Itoa(res.NotFound)),
		notification.Inline(c.t("discord.cmd.search.duration"), duration),
	}
	if len(res.Details) > 0 {
		fields = append(fields, notification.Block(c.t("discord.cmd.search.details_title"), detailLines(res.Details)))
	}

	return notification.New(c.t("discord.cmd.search.title_completed"),
		notification.WithType("command.search"),
		notification.WithColor(notification.ColorSuccess),
		notification.WithFields(fields...),
	)
}

func detailLines(details []controlapi.SearchDetail) string {
	lines := make([]string, 0, min(len(details), maxSearchDetails))
	for _, d := range details[:min(len(details), maxSearchDetails)] {
		lines = append(lines, fmt.Sprintf("• %s - E%02d: %s", seriesName(d.Series), d.Episode, d.Status))
	}
	return strings.Join(lines, "\n")
}
