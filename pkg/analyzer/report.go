package analyzer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"tweetpeek/pkg/models"
)

// WriteSummary prints an aligned summary of the aggregate: run counters
// followed by the trending table. Column widths use display width so
// hashtags in CJK or emoji-heavy terms still line up.
func WriteSummary(w io.Writer, agg *models.Aggregate) {
	fmt.Fprintf(w, "Keyword:         %s\n", agg.Keyword)
	fmt.Fprintf(w, "Posts:           %d\n", agg.PostCount)
	fmt.Fprintf(w, "Analyzed (%s):   %d\n", agg.Lang, agg.AnalyzedCount)
	fmt.Fprintf(w, "Skipped:         %d\n", agg.SkippedCount)
	fmt.Fprintf(w, "Authors:         %d\n", len(agg.Authors))
	fmt.Fprintf(w, "Followers reach: %d\n", agg.FollowersReach)

	if len(agg.Trending) == 0 {
		return
	}

	fmt.Fprintln(w)
	rows := make([][2]string, 0, len(agg.Trending)+1)
	rows = append(rows, [2]string{"TRENDING", "COUNT"})
	for _, entry := range agg.Trending {
		rows = append(rows, [2]string{entry.Term, strconv.Itoa(entry.Count)})
	}

	termWidth, countWidth := 0, 0
	for _, row := range rows {
		if w := runewidth.StringWidth(row[0]); w > termWidth {
			termWidth = w
		}
		if w := runewidth.StringWidth(row[1]); w > countWidth {
			countWidth = w
		}
	}

	for i, row := range rows {
		fmt.Fprintf(w, "%s%s  %s%s\n",
			row[0], pad(row[0], termWidth),
			pad(row[1], countWidth), row[1])
		if i == 0 {
			fmt.Fprintf(w, "%s  %s\n",
				strings.Repeat("-", termWidth), strings.Repeat("-", countWidth))
		}
	}
}

// pad returns the spaces needed to extend s to the given display width
func pad(s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return ""
	}
	return strings.Repeat(" ", gap)
}
