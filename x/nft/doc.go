/*
Package nft implements issuance of unique assets. Every token has
exactly one unit, tracked in per-holder holdings, plus a frozen
metadata record written through the Attacher collaborator at
issuance time.

The market extension composes the Controller to move units between
owners and the custody account.
*/
package nft
