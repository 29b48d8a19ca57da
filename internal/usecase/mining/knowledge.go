package mining

import (
	"sort"
	"strings"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
)

// minTruncatedDocChars is the smallest remaining budget worth spending on a
// truncated doc. Below it the doc is dropped instead, so the prompt never
// carries a heading with no content under it.
const minTruncatedDocChars = 200

// truncationSlack reserves room for the truncation marker line.
const truncationSlack = 20

const truncationMarker = "\n[... truncated]"

// assembleKnowledge renders the qualifying docs into one context block for
// prompt injection. Docs are filtered to the requested usage, ordered by
// SortOrder, and appended until the character budget runs out; the first doc
// that would overflow is truncated if enough budget remains, otherwise
// dropped, and assembly stops either way. Returns "" when nothing qualifies.
func assembleKnowledge(docs []entities.KnowledgeDoc, usage entities.KnowledgeUsage, maxChars int) string {
	filtered := make([]entities.KnowledgeDoc, 0, len(docs))
	for _, doc := range docs {
		if doc.Usage.AppliesTo(usage) {
			filtered = append(filtered, doc)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].SortOrder < filtered[j].SortOrder
	})
	if len(filtered) == 0 {
		return ""
	}

	var parts []string
	total := 0
	for _, doc := range filtered {
		header := "### " + doc.Heading() + "\n"
		section := header + doc.Content

		if total+len(section) > maxChars {
			remaining := maxChars - total
			if remaining > minTruncatedDocChars {
				cut := remaining - len(header) - truncationSlack
				if cut > 0 {
					content := doc.Content
					if cut < len(content) {
						content = content[:cut]
					}
					parts = append(parts, header+content+truncationMarker)
				}
			}
			break
		}

		parts = append(parts, section)
		total += len(section)
	}

	if len(parts) == 0 {
		return ""
	}
	return "## Grounding Knowledge\n\n" + strings.Join(parts, "\n\n")
}
