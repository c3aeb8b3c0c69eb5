// Package hookchain lets several extensions share the host's single-slot
// hooks.
//
// The host offers one global function slot per interception point and the
// last extension to write a slot wins. Extensions are expected to save the
// previous value and call it, which works until one of them does not, and
// leaves no way to see or change who is installed. The manager replaces the
// slot contents with an ordered chain per point that can be listed and
// toggled per owner.
//
// REGISTRATION:
//
// An extension is loaded between BeforeInit and AfterInit (Wrap does this
// for any host.Extension):
//  1. BeforeInit reserves the next trampoline of every point and writes it
//     into the slot. The extension's Init saves it as its "previous hook".
//  2. The extension's Init runs and overwrites the slots it cares about.
//  3. AfterInit compares each slot with the trampoline handed out. A slot
//     that still holds the trampoline (or nil) was not claimed: the
//     reservation is rolled back and the slot restored. Otherwise the new
//     value becomes a Compatible entry and the slot is pointed at the
//     manager's entry function for that point.
//
// Trampolines are generated top-level functions (see gen/) because function
// identity is the code address, and every closure over one literal shares
// an address. Trampoline i resumes dispatch just after the entry of the
// owner it was handed to. PoolSize bounds the number of claimers per point;
// running out is fatal.
//
// DISPATCH:
//
// The entry function walks the chain from position 0. A disabled owner is
// skipped. An enabled Compatible entry is called and the walk ends there;
// the extension continues the chain by calling its saved trampoline. An
// enabled Wrapped entry runs before, the rest of the chain, then after,
// so Wrapped entries nest outer-to-inner and unwind inner-to-outer. After
// runs even if the inner walk panics. Past the last entry the host's
// standard implementation runs.
//
// OUTPUT REWRITERS:
//
// The first RegisterOutputRewriter call installs a Wrapped entry on
// executor_run owned by RewriterOwner. Its before callback picks the
// enabled rewriters whose filter accepts the query and replaces qd.Dest by a
// decorator that threads every row through them in registration order; its
// after callback restores the original destination and releases the
// decorator.
//
// ERRORS:
//
// Registration errors (capacity, double registration, unbalanced
// BeforeInit/AfterInit) panic with *FatalError and abort the load. Looking
// up an unknown owner returns ErrOwnerNotFound.
//
// There is one Manager per host, created on first use and stored in the
// host's rendezvous table (For). It is not safe for concurrent use.
package hookchain
