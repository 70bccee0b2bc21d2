// Package sanitizer normalizes guest-supplied contact data before validation
// and storage. All functions are idempotent and never return errors; invalid
// input degrades to an empty string so the validator can reject it with a
// proper message.
//
// Normalization includes:
//   - Phone numbers: convert to E.164 format (+[country][number])
//   - Names and free text: collapse whitespace, trim, strip control runes
//   - Emails: trim and lowercase
package sanitizer
