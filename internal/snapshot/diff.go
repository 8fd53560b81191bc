// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package snapshot

import (
	"context"
	"fmt"
	"sort"
)

// Diff lists the function-level differences between two snapshots.
type Diff struct {
	// Added holds functions present in the newer snapshot only.
	Added []string

	// Removed holds functions present in the older snapshot only.
	Removed []string

	// Deprecated holds functions deprecated in the newer snapshot that
	// were not deprecated in the older one.
	Deprecated []string
}

// Empty reports whether the two snapshots expose the same functions.
func (d *Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Deprecated) == 0
}

type functionRow struct {
	deprecated bool
}

// CompareSnapshots diffs snapshot b against snapshot a. Both must exist.
func (s *Store) CompareSnapshots(ctx context.Context, a, b int64) (*Diff, error) {
	older, err := s.functionSet(ctx, a)
	if err != nil {
		return nil, err
	}
	newer, err := s.functionSet(ctx, b)
	if err != nil {
		return nil, err
	}

	diff := &Diff{}
	for name, row := range newer {
		old, ok := older[name]
		if !ok {
			diff.Added = append(diff.Added, name)
			continue
		}
		if row.deprecated && !old.deprecated {
			diff.Deprecated = append(diff.Deprecated, name)
		}
	}
	for name := range older {
		if _, ok := newer[name]; !ok {
			diff.Removed = append(diff.Removed, name)
		}
	}

	sort.Strings(diff.Added)
	sort.Strings(diff.Removed)
	sort.Strings(diff.Deprecated)
	return diff, nil
}

func (s *Store) functionSet(ctx context.Context, id int64) (map[string]functionRow, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM snapshots WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking snapshot %d: %w", id, err)
	}
	if !exists {
		return nil, fmt.Errorf("snapshot %d not found", id)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, deprecated_since IS NOT NULL FROM functions WHERE snapshot_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("querying functions for snapshot %d: %w", id, err)
	}
	defer rows.Close()

	set := make(map[string]functionRow)
	for rows.Next() {
		var name string
		var deprecated bool
		if err := rows.Scan(&name, &deprecated); err != nil {
			return nil, fmt.Errorf("scanning function row: %w", err)
		}
		set[name] = functionRow{deprecated: deprecated}
	}
	return set, rows.Err()
}
