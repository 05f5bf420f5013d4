// Package compiler turns monitor declarations written in CUE or HCL into
// ir.MonitorSpec values and checks them against the synthesizer's rules.
//
// Both front ends produce the same ir.Definition. Field order in the source
// is preserved, so signals, alphabet entries and conversions keep the order
// the author wrote them in.
package compiler
