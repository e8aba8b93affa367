// Enums live in their own package because both the review engine and the MHL
// style admin API need them and neither should pull in the other's config.
package common

//go:generate go tool go-enum --marshal --names --nocomments

// Reading speed variant of a page. Each variant owns an independent block
// order and its own audio assets.
// ENUM(normal, slow)
type AudioSpeed string

// Lifecycle status of a book record.
// ENUM(draft, pending, approved, published)
type BookStatus string

// Review decision for a digitized version.
// ENUM(pending, approved, rejected)
type ReviewStatus string
