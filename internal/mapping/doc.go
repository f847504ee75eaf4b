// Package mapping turns tokenized CSV rows into canonical transactions.
//
// Everything here is pure: parsing amounts, classifying type tags, normalizing
// dates, applying a FieldMapping and guessing one from a header row. Nothing
// touches the store. Parse failures degrade to best-effort values (0 for
// amounts, the original text for dates) instead of returning errors, and rows
// missing a required value are handed back as skipped rather than failing the
// batch.
package mapping
