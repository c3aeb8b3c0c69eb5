// Package extensions holds the sample extensions shipped with pgext and the
// registry the catalog, harness and CLI build them from.
//
// tracehooks and plannerstats install ordinary hooks and chain to the
// previous slot value the way any third-party extension would. rowmask and
// rowlimit register output rewriters through the hook-chain API and so
// must be loaded through hookchain.Wrap. idle installs nothing.
//
// Every extension reports what it does to a shared Recorder, which is what
// the regression harness asserts on.
package extensions
