// Package dagkrant assembles a daily newspaper ("De Dagkrant") from the
// newsletters that arrive in a mailbox. It fetches newsletters, strips
// navigation chrome, tracking artifacts, footers and other noise from
// their HTML, translates English issues to Dutch, and mails the result
// as a single PDF.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, rod/, openai/) or their
// concern (clean/, digest/).
package dagkrant
