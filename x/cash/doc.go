/*
Package cash defines a simple wallet holding a set of coins
under an address, along with a controller to move and issue
coins and a SendMsg handler to expose payments as transactions.

Other extensions that need to charge or pay out coins should
depend on the Controller interface rather than on the bucket,
so the wallet layout stays private to this package.
*/
package cash
