package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Printer emits a report to some destination.
type Printer interface {
	Print() error
	Close() error
}

// Printers forwards a report to several destinations.
type Printers struct {
	printers []Printer
}

func NewPrinters() *Printers {
	return &Printers{[]Printer{}}
}

// Print prints to all destinations; failures of one printer do not stop the others.
func (ps *Printers) Print() error {
	var errs []error
	for _, p := range ps.printers {
		if err := p.Print(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (ps *Printers) Close() error {
	var errs []error
	for _, p := range ps.printers {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (ps *Printers) AddPrinter(p Printer) *Printers {
	ps.printers = append(ps.printers, p)
	return ps
}

type PrintToWriter struct {
	w io.Writer
	f func() string
}

func NewPrintToWriter(w io.Writer, f func() string) *PrintToWriter {
	return &PrintToWriter{w, f}
}

func (p *PrintToWriter) Print() error {
	_, err := fmt.Fprintln(p.w, p.f())
	return err
}

func (p *PrintToWriter) Close() error {
	return nil
}

func (ps *Printers) AddPrintToWriter(w io.Writer, f func() string) *Printers {
	return ps.AddPrinter(NewPrintToWriter(w, f))
}

// AddPrintToConsole adds a printer writing to stdout unless isDisabled is set.
func (ps *Printers) AddPrintToConsole(isDisabled bool, f func() string) *Printers {
	if isDisabled {
		return ps
	}
	return ps.AddPrinter(NewPrintToWriter(os.Stdout, f))
}

// PrintToFile replaces the content of a file with the report on every Print.
type PrintToFile struct {
	filepath string
	f        func() string
}

func NewPrintToFile(filepath string, f func() string) *PrintToFile {
	return &PrintToFile{filepath, f}
}

func (p *PrintToFile) Print() error {
	if err := os.WriteFile(p.filepath, []byte(p.f()), 0644); err != nil {
		return fmt.Errorf("unable to print to file %s; %v", p.filepath, err)
	}
	return nil
}

func (p *PrintToFile) Close() error {
	return nil
}

// AddPrintToFile adds a file printer if a path is given.
func (ps *Printers) AddPrintToFile(filepath string, f func() string) *Printers {
	if filepath != "" {
		ps.AddPrinter(NewPrintToFile(filepath, f))
	}
	return ps
}
