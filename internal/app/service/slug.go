package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"cortex_edu/internal/common"

	"github.com/gosimple/slug"
)

type slugExistsFunc func(ctx context.Context, slug string) (bool, error)

// uniqueSlug derives a slug from name and appends -1, -2, ... until exists reports it free.
func uniqueSlug(ctx context.Context, name string, exists slugExistsFunc) (string, error) {
	base := slug.Make(name)
	if base == "" {
		return "", fmt.Errorf("%q does not produce a usable slug: %w", name, common.ErrValidation)
	}

	candidate := base
	for i := 1; ; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("checking slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
}

// renamedSlug keeps current when it was already derived from name, so renames that do
// not change the slug base do not break links.
func renamedSlug(ctx context.Context, current, name string, exists slugExistsFunc) (string, error) {
	if sameSlugFamily(current, slug.Make(name)) {
		return current, nil
	}
	return uniqueSlug(ctx, name, exists)
}

func sameSlugFamily(current, base string) bool {
	if base == "" {
		return false
	}
	if current == base {
		return true
	}
	suffix, ok := strings.CutPrefix(current, base+"-")
	if !ok || suffix == "" {
		return false
	}
	_, err := strconv.ParseUint(suffix, 10, 32)
	return err == nil
}
