package cli

import (
	"fmt"
	"strings"

	"github.com/okaimono/sage/internal/model"
	"github.com/okaimono/sage/internal/ranking"
)

// RenderAnalysis formats one receipt analysis for terminal display.
func RenderAnalysis(result *model.AnalysisResult) string {
	var sb strings.Builder

	title := ReceiptIcon + " Receipt Analysis"
	if result.StoreName != "" {
		title += " — " + result.StoreName
	}
	sb.WriteString(TitleStyle.Render(title))
	sb.WriteString("\n")
	if result.PurchaseDate != "" {
		sb.WriteString(SubtleStyle.Render(result.PurchaseDate))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	for _, item := range result.Items {
		name := item.RawName
		if item.Canonical != "" && item.Canonical != item.RawName {
			name += SubtleStyle.Render(" → " + item.Canonical)
		}
		sb.WriteString("  " + name + "\n")

		paid := "-"
		if item.PaidUnitPrice != nil {
			paid = fmt.Sprintf("%.0f円", *item.PaidUnitPrice)
		}
		line := fmt.Sprintf("    paid %s × %.0f", paid, item.Quantity)
		if item.Judgment.Found {
			line += fmt.Sprintf("  ref %.0f円", *item.Judgment.StatPrice)
			if item.Judgment.StatUnit != nil {
				line += "/" + *item.Judgment.StatUnit
			}
			line += "  " + renderVerdict(*item.Judgment.Judgement, *item.Judgment.Diff)
		} else {
			line += "  " + SubtleStyle.Render("no reference price")
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(BoldStyle.Render("Summary") + "\n")
	sb.WriteString(fmt.Sprintf("  Total payment: %.0f円\n", result.Summary.TotalPayment))
	sb.WriteString("  " + SuccessStyle.Render(fmt.Sprintf("Saved: %d円", result.Summary.TotalSavedAmount)) + "\n")
	sb.WriteString("  " + ErrorStyle.Render(fmt.Sprintf("Overpaid: %d円", result.Summary.TotalOverpaidAmount)) + "\n")

	return sb.String()
}

func renderVerdict(verdict model.Verdict, diff float64) string {
	switch verdict {
	case model.VerdictDeal:
		return SuccessStyle.Render(fmt.Sprintf("DEAL %+.0f円", diff))
	case model.VerdictOverpay:
		return ErrorStyle.Render(fmt.Sprintf("OVERPAY %+.0f円", diff))
	default:
		return WarningStyle.Render("FAIR")
	}
}

// RenderRanking formats the leaderboard with the requester's row
// highlighted, plus their standing when outside the visible window.
func RenderRanking(result *ranking.Result, requester string) string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render(ChartIcon + " Net Savings Leaderboard"))
	sb.WriteString("\n")

	if len(result.Rankings) == 0 {
		sb.WriteString(SubtleStyle.Render("No savings records yet.") + "\n")
		return sb.String()
	}

	header := fmt.Sprintf("%4s  %-20s  %12s  %10s", "Rank", "Name", "Net Saved", "Overpaid")
	sb.WriteString(TableHeaderStyle.Render(header))
	sb.WriteString("\n")

	requesterVisible := false
	for _, entry := range result.Rankings {
		row := fmt.Sprintf("%4d  %-20s  %11d円  %9d円",
			entry.Rank, displayName(entry.Nickname, entry.UserID), entry.TotalSaved, entry.TotalOverpaid)
		if entry.UserID == requester {
			requesterVisible = true
			sb.WriteString(HighlightStyle.Render(row))
		} else {
			sb.WriteString(TableCellStyle.Render(row))
		}
		sb.WriteString("\n")
	}

	if result.MyRank != nil && !requesterVisible {
		sb.WriteString(SubtleStyle.Render("  ⋮") + "\n")
		row := fmt.Sprintf("%4d  %-20s  %11d円  %9d円",
			*result.MyRank, displayName(result.MyNickname, requester), result.MyTotalSaved, result.MyTotalOverpaid)
		sb.WriteString(HighlightStyle.Render(row))
		sb.WriteString("\n")
	}
	if result.MyRank == nil && requester != "" {
		sb.WriteString(SubtleStyle.Render("You have no savings records yet.") + "\n")
	}

	return sb.String()
}

func displayName(nickname *string, userID string) string {
	if nickname != nil && *nickname != "" {
		return *nickname
	}
	return userID
}
