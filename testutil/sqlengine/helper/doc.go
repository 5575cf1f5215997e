// Package helper provides fixtures and transaction shortcuts for ReactionQuery tests.
package helper
