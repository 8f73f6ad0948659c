// Package site builds the marketplace pages: the landing page, the lawyer
// directory and profiles, the sign-in and sign-up forms, and the lawyer
// dashboard with its avatar upload form.
//
// Listings are static mock data. Pages return vdom trees; the tooltip
// triggers on them carry Tooltip hooks that the live runtime drives.
package site
