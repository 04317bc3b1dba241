// Package http exposes catalogs and a coordinator over HTTP using chi, and
// provides a PageSource client for remote catalogs.
package http
