package httpapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stockpile-labs/stockpile-cli/internal/core/domain"
)

// usageText is the reply for unrecognized or incomplete commands.
const usageText = "Usage: `/stockpile status <batch_id>` or `/stockpile used <batch_id> <image_id> [link]`"

// renderStatus formats a batch status reply. repoSlug and ref, when set,
// turn each item line into a link to the backing file on GitHub.
func renderStatus(st *domain.BatchStatus, repoSlug, ref string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Batch Status: %s*\n", st.BatchID)
	fmt.Fprintf(&b, "Total: %d | Used: %d | Remaining: %d | Stock: %s\n\n*Images:*\n",
		st.Total, st.Used, st.Remaining, st.Level)

	if len(st.Items) == 0 {
		b.WriteString("_none_")
	}
	for _, item := range st.Items {
		if repoSlug != "" {
			fmt.Fprintf(&b, "• <https://github.com/%s/blob/%s/%s|%s> (%s)\n",
				repoSlug, ref, item.FilePath, item.ImageID, item.Status)
		} else {
			fmt.Fprintf(&b, "• %s (%s)\n", item.ImageID, item.Status)
		}
	}

	if st.Remaining == 0 {
		b.WriteString("\n⚠️ This batch is empty!")
	}
	return b.String()
}

// renderUsed formats the reply after a successful mark-used.
func renderUsed(imageID string, res *domain.UseResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Marked `%s` as used!\nRemaining in batch: %d of %d", imageID, res.Remaining, res.Total)
	switch res.Level {
	case domain.LevelEmpty:
		b.WriteString("\n⚠️ This batch is now empty!")
	case domain.LevelLow:
		b.WriteString("\n⚠️ Stock is running low.")
	}
	return b.String()
}

// renderError maps every core outcome to exactly one message template,
// so callers never have to infer intent from error text.
func renderError(err error, batchID, imageID string) string {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		return "❌ Invalid batch or image identifier."
	case errors.Is(err, domain.ErrBatchNotFound):
		return fmt.Sprintf("❌ Batch `%s` not found.", batchID)
	case errors.Is(err, domain.ErrItemNotFound):
		return fmt.Sprintf("❌ Image `%s` not found in batch `%s`.", imageID, batchID)
	case errors.Is(err, domain.ErrAlreadyUsed):
		return fmt.Sprintf("ℹ️ Image `%s` is already marked as used.", imageID)
	case errors.Is(err, domain.ErrConflict):
		return fmt.Sprintf("⚠️ Batch `%s` was updated concurrently. Please retry.", batchID)
	case errors.Is(err, domain.ErrAmbiguousCommit):
		return fmt.Sprintf("⚠️ The update may or may not have been saved. Check `status %s` before retrying.", batchID)
	default:
		return "❌ Ledger store error. Please try again later."
	}
}
