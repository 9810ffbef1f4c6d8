package models

import "strconv"

// ClientID identifies an account holder
type ClientID uint16

// TransactionID identifies a fund-moving event; unique across the input stream
type TransactionID uint32

func (c ClientID) String() string {
	return strconv.FormatUint(uint64(c), 10)
}

func (t TransactionID) String() string {
	return strconv.FormatUint(uint64(t), 10)
}
