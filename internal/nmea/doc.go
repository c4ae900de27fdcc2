// Package nmea extracts NMEA 0183 style sentences ("$..." and "!...") from
// a text stream and validates their XOR checksum.
//
// Field interpretation is left to the callers; the AIS decoder consumes
// !AIVDM/!AIVDO sentences from here.
package nmea
