package services

import "github.com/dmitrijs2005/gophgallery/internal/logging"

func nopLogger() logging.Logger { return logging.Nop() }

func strPtr(s string) *string { return &s }
