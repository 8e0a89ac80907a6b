/*
Package market implements custodial listing and atomic sale of
unique assets.

A single marketplace-wide custody authority is derived from a seed
with a deterministic bounded bump search. It holds no private key,
its address simply owns the custody holdings. Listing moves an
asset's unit into custody and writes the sale record; buying pays
the seller, releases the unit to the buyer and destroys the record,
all inside one savepoint so no partial sale is ever observable.
*/
package market
