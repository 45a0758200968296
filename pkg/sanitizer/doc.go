// Package sanitizer normalizes user input before validation and storage.
//
// All functions are idempotent: applying them twice yields the same result as
// applying them once. Invalid input is passed through in normalized form and
// left for the validator to reject; sanitizers never return errors.
//
// Normalization includes:
//   - Names: collapse whitespace, drop control characters
//   - Student IDs: strip spaces and hyphens, uppercase letters
//   - Emails: trim and lowercase
//   - Dates: accept 2024.05.01 and 2024/05/01 and zero-pad to 2024-05-01
//   - Time slots: map 오전/오후, am/pm and morning/afternoon to the stored enum
//   - Free text: trim, unify line endings, drop control characters except newlines
package sanitizer
