package types

// JSONMap is a loosely-typed payload persisted as jsonb via the GORM json
// serializer. Audit log details are written once and never patched, so the
// map is treated as immutable after creation.
type JSONMap map[string]any
