// Package wbs holds the pure rules of the work breakdown structure: code
// minting, the category hierarchy, cycle detection and the node arena used to
// plan structural mutations.
package wbs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/simonbravin/bloqer/internal/apperrors"
	"github.com/simonbravin/bloqer/internal/core/domain"
)

// MaxDepth is the deepest level a node may sit at (roots are depth 1).
const MaxDepth = 3

const separator = "."

// ParseCode splits a dot code into its numeric segments. Zero-padded legacy
// segments ("01.02") are accepted.
func ParseCode(code string) ([]int, error) {
	if code == "" {
		return nil, fmt.Errorf("empty wbs code")
	}
	parts := strings.Split(code, separator)
	segments := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid wbs code %q: segment %q is not a positive integer", code, p)
		}
		segments[i] = n
	}
	return segments, nil
}

// FormatCode joins segments into the canonical unpadded form.
func FormatCode(segments []int) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, separator)
}

// NormalizeCode rewrites a code into the canonical unpadded form.
func NormalizeCode(code string) (string, error) {
	segments, err := ParseCode(code)
	if err != nil {
		return "", err
	}
	return FormatCode(segments), nil
}

// ChildCode appends sequence to parentCode, or returns the bare sequence for roots.
func ChildCode(parentCode string, sequence int) string {
	if parentCode == "" {
		return strconv.Itoa(sequence)
	}
	return parentCode + separator + strconv.Itoa(sequence)
}

// LastSegment returns the sibling sequence encoded in code.
func LastSegment(code string) (int, error) {
	segments, err := ParseCode(code)
	if err != nil {
		return 0, err
	}
	return segments[len(segments)-1], nil
}

// CodeDepth returns the number of segments in code.
func CodeDepth(code string) int {
	if code == "" {
		return 0
	}
	return strings.Count(code, separator) + 1
}

// CompareCodes orders codes segment by segment numerically, so "1.9" < "1.10".
// Malformed codes fall back to string comparison.
func CompareCodes(a, b string) int {
	sa, errA := ParseCode(a)
	sb, errB := ParseCode(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	for i := 0; i < len(sa) && i < len(sb); i++ {
		if sa[i] != sb[i] {
			if sa[i] < sb[i] {
				return -1
			}
			return 1
		}
	}
	return len(sa) - len(sb)
}

// NextSequence returns one more than the highest last segment among siblings, or 1.
func NextSequence(siblingCodes []string) (int, error) {
	highest := 0
	for _, c := range siblingCodes {
		seq, err := LastSegment(c)
		if err != nil {
			return 0, err
		}
		if seq > highest {
			highest = seq
		}
	}
	return highest + 1, nil
}

// NextSiblingCode mints the code for a new child of parentCode ("" for roots).
func NextSiblingCode(parentCode string, siblingCodes []string) (string, error) {
	seq, err := NextSequence(siblingCodes)
	if err != nil {
		return "", err
	}
	return ChildCode(parentCode, seq), nil
}

// allowedChildren is the category hierarchy; a missing key is a leaf.
var allowedChildren = map[domain.WbsCategory][]domain.WbsCategory{
	domain.CategoryPhase: {domain.CategoryTask, domain.CategoryZone, domain.CategoryMilestone},
	domain.CategoryTask:  {domain.CategoryBudgetItem},
	domain.CategoryZone:  {domain.CategoryBudgetItem},
}

var categoryDepth = map[domain.WbsCategory]int{
	domain.CategoryPhase:      1,
	domain.CategoryTask:       2,
	domain.CategoryZone:       2,
	domain.CategoryMilestone:  2,
	domain.CategoryBudgetItem: 3,
}

// IsAllowedChild reports whether child may be placed directly under parent.
func IsAllowedChild(parent, child domain.WbsCategory) bool {
	for _, c := range allowedChildren[parent] {
		if c == child {
			return true
		}
	}
	return false
}

// DepthOf returns the fixed depth of a category, or 0 if unknown.
func DepthOf(category domain.WbsCategory) int {
	return categoryDepth[category]
}

// ValidatePlacement checks that a node of category may sit under parent (nil for root).
func ValidatePlacement(parent *domain.WbsNode, category domain.WbsCategory) error {
	depth := DepthOf(category)
	if depth == 0 {
		return apperrors.NewValidationError("category", fmt.Sprintf("unknown category %q", category))
	}
	if parent == nil {
		if category != domain.CategoryPhase {
			return apperrors.NewDomainError(apperrors.CodeRootMustBePhase, "root nodes must be %s, got %s", domain.CategoryPhase, category)
		}
		return nil
	}
	if CodeDepth(parent.Code)+1 > MaxDepth {
		return apperrors.NewDomainError(apperrors.CodeMaxDepthExceeded, "parent %s is already at the maximum depth %d", parent.Code, MaxDepth)
	}
	if !IsAllowedChild(parent.Category, category) {
		return apperrors.NewDomainError(apperrors.CodeCategoryNotAllowed, "%s cannot be placed under %s", category, parent.Category)
	}
	return nil
}
