package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shokoauto/notifybridge/pkg/controlapi"
	"github.com/shokoauto/notifybridge/pkg/i18n"
	"github.com/shokoauto/notifybridge/pkg/notification"
)

func runStatus(ctx context.Context, c *call) (notification.Record, error) {
	st, err := c.api.Status(ctx)
	if err != nil {
		return errorRecord(c, "discord.cmd.status", err), err
	}
	return statusRecord(c, st), nil
}

func statusRecord(c *call, st controlapi.Status) notification.Record {
	app := c.t("discord.cmd.status.stopped")
	if st.Running {
		app = c.t("discord.cmd.status.running")
	}

	fields := []notification.Field{
		notification.Inline(c.t("discord.cmd.status.application"), app),
		notification.Inline(c.t("discord.cmd.status.last_cycle"), orNone(c, st.LastCycle)),
		notification.Inline(c.t("discord.cmd.status.torrents_added"), strconv.Itoa(st.TotalAdded)),
		notification.Inline(c.t("discord.cmd.status.not_found"), strconv.Itoa(st.TotalNotFound)),
		notification.Inline(c.t("discord.cmd.status.next_cycle"), orNone(c, st.NextRun)),
	}
	if ep := st.CurrentEpisode; ep != nil {
		fields = append(fields, notification.Block(
			c.t("discord.cmd.status.current_episode"),
			fmt.Sprintf("%s - E%d", seriesName(ep.Series), ep.Episode),
		))
	}

	return notification.New(c.t("discord.cmd.status.title"),
		notification.WithType("command.status"),
		notification.WithColor(notification.ColorSuccess),
		notification.WithFields(fields...),
	)
}

func orNone(c *call, v controlapi.Text) string {
	if v == "" {
		return c.t("discord.cmd.status.none")
	}
	return v.String()
}

// errorRecord builds the failure record of a command from <prefix>.error_title
// and <prefix>.error_desc. Only the display-safe reason reaches the text.
func errorRecord(c *call, prefix string, err error) notification.Record {
	return notification.New(c.t(prefix+".error_title"),
		notification.WithType("command.error"),
		notification.WithColor(notification.ColorError),
		notification.WithDescription(c.t(prefix+".error_desc", i18n.Params{"error": controlapi.Reason(err)})),
	)
}

func seriesName(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
