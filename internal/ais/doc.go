// Package ais reassembles AIVDM/AIVDO fragments and decodes class A position
// reports (message types 1, 2 and 3) from their six-bit payloads.
package ais
