// Package source loads the attendance register as two parallel
// row-major tables: underlying cell values for date and metric parsing
// and display-formatted text for everything rendered verbatim. Sources
// exist for Google Sheets and local Excel workbooks.
package source
