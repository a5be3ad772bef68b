// Package models defines the core domain models for Pagetally.
//
// # Models
//
//   - Document: one priced document, uploaded or entered by hand
//   - Batch: a saved snapshot of documents, price and aggregate totals
//   - PaymentShare: one named payer's portion of a batch's total cost
//   - Draft: the uncommitted calculator state mirrored per user
//   - User: a registered account that owns batches
//
// # Design Principles
//
//  1. Totals on Batch and cost on Document are denormalized for persistence,
//     but are always derived from page counts and the price per page.
//  2. Relationships are ID strings, never pointers.
//  3. Timestamps are Unix seconds.
package models
