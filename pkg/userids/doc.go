// Package userids loads the ordered list of accounts to harvest from a CSV
// file with a user_id column or a plain one-id-per-line file.
package userids
