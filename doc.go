/*
Package bazaar defines all common interfaces that weave together the
marketplace application: transactions and messages, handlers and
decorators, the key-value storage contracts, and the condition/address
scheme used to identify accounts and derived authorities.

The actual functionality lives in the subpackages. orm and store
provide state access, app wires handlers into an abci application, and
the extensions under x implement the marketplace itself: x/cash moves
the base currency, x/nft issues unique assets, and x/market lists them
for sale and executes atomic purchases out of custody.
*/
package bazaar
