// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	pe "github.com/lazype/pe"
	"github.com/lazype/pe/log"
	"github.com/spf13/cobra"
)

var (
	wantDOSHeader  bool
	wantRichHeader bool
	wantNTHeader   bool
	wantSections   bool
	wantImports    bool
	wantExports    bool
	wantRelocs     bool
	wantCerts      bool
	wantAll        bool
)

func humanizeTimestamp(ts uint32) string {
	return time.Unix(int64(ts), 0).UTC().String()
}

func openImage(path string) (img *pe.FileImage, size int64, closeFn func() error, err error) {
	store, err := pe.OpenMappedFileStore(path)
	if err != nil {
		return nil, 0, nil, err
	}
	logger := log.NewFilter(log.NewStdLogger(), log.LevelWarn)
	img, err = pe.NewFileImage(store, pe.Options{Logger: logger})
	if err != nil {
		store.Close()
		return nil, 0, nil, err
	}
	return img, int64(store.Len()), store.Close, nil
}

func dumpDOSHeader(img *pe.FileImage, w *tabwriter.Writer) {
	dos := img.DOSHeader().Value
	fmt.Print("\n\t------[ DOS Header ]------\n\n")
	fmt.Fprintf(w, "Magic:\t 0x%x\n", dos.Magic)
	fmt.Fprintf(w, "Bytes On Last Page Of File:\t 0x%x\n", dos.BytesOnLastPageOfFile)
	fmt.Fprintf(w, "Pages In File:\t 0x%x\n", dos.PagesInFile)
	fmt.Fprintf(w, "Address Of New EXE Header:\t 0x%x\n", dos.AddressOfNewEXEHeader)
	w.Flush()
}

func dumpRichHeader(img *pe.FileImage, w *tabwriter.Writer) {
	rh, ok := img.RichHeader()
	if !ok {
		return
	}
	fmt.Print("\nRICH HEADER\n***********\n")
	fmt.Fprintf(w, "\t0x%x\t XOR Key\n", rh.XORKey)
	fmt.Fprintf(w, "\t0x%x\t DanS offset\n", rh.DansOffset)
	fmt.Fprintf(w, "\t0x%x\t Checksum\n\n", img.RichHeaderChecksum(rh))
	fmt.Fprintln(w, "ProductID\tMinorCV\tCount\tMeaning\tVSVersion\t")
	for _, compID := range rh.CompIDs {
		fmt.Fprintf(w, "0x%x\t0x%x\t0x%x\t%s\t%s\t\n",
			compID.ProdID, compID.MinorCV, compID.Count,
			pe.ProdIDtoStr(compID.ProdID), pe.ProdIDtoVSversion(compID.ProdID))
	}
	w.Flush()
}

func dumpNTHeader(img *pe.FileImage, w *tabwriter.Writer) {
	fh := img.FileHeader().Value
	fmt.Print("\n\t------[ File Header ]------\n\n")
	fmt.Fprintf(w, "Machine:\t 0x%x\n", fh.Machine)
	fmt.Fprintf(w, "Number Of Sections:\t 0x%x\n", fh.NumberOfSections)
	fmt.Fprintf(w, "TimeDateStamp:\t 0x%x (%s)\n", fh.TimeDateStamp, humanizeTimestamp(fh.TimeDateStamp))
	fmt.Fprintf(w, "Pointer To Symbol Table:\t 0x%x\n", fh.PointerToSymbolTable)
	fmt.Fprintf(w, "Number Of Symbols:\t 0x%x\n", fh.NumberOfSymbols)
	w.Flush()
}

func dumpSections(img *pe.FileImage, w *tabwriter.Writer) {
	for i, sec := range img.Sections() {
		fmt.Printf("\n\t------[ Section Header #%d ]------\n\n", i)
		fmt.Fprintf(w, "Name:\t %s\n", sec.NameString())
		fmt.Fprintf(w, "Virtual Size:\t 0x%x\n", sec.VirtualSize)
		fmt.Fprintf(w, "Virtual Address:\t 0x%x\n", sec.VirtualAddress)
		fmt.Fprintf(w, "Size Of Raw Data:\t 0x%x\n", sec.SizeOfRawData)
		fmt.Fprintf(w, "Pointer To Raw Data:\t 0x%x\n", sec.PointerToRawData)
		fmt.Fprintf(w, "Characteristics:\t 0x%x\n", sec.Characteristics)
		w.Flush()
	}
}

func dumpImports(img *pe.FileImage, w *tabwriter.Writer) {
	fmt.Printf("\nIMPORTS\n********\n")
	c, err := img.ImportDescriptors()
	if err != nil {
		fmt.Fprintf(os.Stderr, "imports: %v\n", err)
		return
	}
	for {
		p, ok := c.Next()
		if !ok {
			break
		}
		desc := p.Value
		name := "?"
		if off, ok := img.ToFileOffset(pe.VirtualOffset(desc.Name)); ok {
			if n, ok := img.ReadCString(off, 0x200); ok {
				name = n
			}
		}
		fmt.Printf("\n\t------[ %s ]------\n\n", name)
		fmt.Fprintf(w, "TimeDateStamp:\t 0x%x (%s)\n", desc.TimeDateStamp, humanizeTimestamp(desc.TimeDateStamp))
		fmt.Fprintf(w, "First Thunk:\t 0x%x\n", desc.FirstThunk)
		w.Flush()

		thunks := img.Thunks(desc.FirstThunk)
		for {
			tp, ok := thunks.Next()
			if !ok {
				break
			}
			t := tp.Value
			if t.ByOrdinal(img.Is64()) {
				fmt.Fprintf(w, "Ordinal:\t 0x%x\n", t.Ordinal())
				continue
			}
			fname, hint, _ := img.ImportedName(t.HintNameRVA(img.Is64()))
			fmt.Fprintf(w, "%s\t Hint: 0x%x\n", fname, hint)
		}
		w.Flush()
	}
}

func dumpExports(img *pe.FileImage, w *tabwriter.Writer) {
	name, _ := img.ExportDirectoryName()
	fmt.Printf("\nEXPORTS (%s)\n********\n", name)
	c := img.ExportedFunctions()
	fmt.Fprintln(w, "Name\tOrdinal\tRVA\t")
	for {
		p, ok := c.Next()
		if !ok {
			break
		}
		f := p.Value
		fmt.Fprintf(w, "%s\t0x%x\t0x%x\t\n", f.Name, f.Ordinal, f.FunctionRVA)
	}
	w.Flush()
}

func dumpRelocations(img *pe.FileImage, w *tabwriter.Writer) {
	fmt.Printf("\nRELOCATIONS\n***********\n")
	machine := img.FileHeader().Value.Machine
	c := img.Relocations()
	for {
		p, ok := c.Next()
		if !ok {
			break
		}
		block := p.Value
		fmt.Printf("\n➡ Virtual Address: 0x%x | Size Of Block: 0x%x\n",
			block.Header.VirtualAddress, block.Header.SizeOfBlock)
		entries := block.Entries
		for {
			ep, ok := entries.Next()
			if !ok {
				break
			}
			fmt.Printf("|-  Offset: 0x%x | Type: %s\n", ep.Value.Offset, ep.Value.Type.String(machine))
		}
	}
}

func dumpCertificates(img *pe.FileImage, w *tabwriter.Writer, size int64) {
	fmt.Printf("\nSECURITY\n*********\n")
	c := img.Certificates()
	for {
		p, ok := c.Next()
		if !ok {
			break
		}
		cert := p.Value
		fmt.Fprintf(w, "Length:\t 0x%x\n", cert.Header.Length)
		fmt.Fprintf(w, "Revision:\t 0x%x\n", cert.Header.Revision)
		fmt.Fprintf(w, "Issuer:\t %s\n", cert.Info.Issuer)
		fmt.Fprintf(w, "Subject:\t %s\n", cert.Info.Subject)
		w.Flush()
	}
	digest := pe.Authentihash(img, size)
	fmt.Printf("Authentihash (sha256): %x\n", digest)
}

func dump(cmd *cobra.Command, args []string) {
	for _, path := range args {
		img, size, closeFn, err := openImage(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			continue
		}

		w := tabwriter.NewWriter(os.Stdout, 1, 1, 3, ' ', tabwriter.AlignRight)
		if wantAll || wantDOSHeader {
			dumpDOSHeader(img, w)
		}
		if wantAll || wantRichHeader {
			dumpRichHeader(img, w)
		}
		if wantAll || wantNTHeader {
			dumpNTHeader(img, w)
		}
		if wantAll || wantSections {
			dumpSections(img, w)
		}
		if wantAll || wantImports {
			dumpImports(img, w)
		}
		if wantAll || wantExports {
			dumpExports(img, w)
		}
		if wantAll || wantRelocs {
			dumpRelocations(img, w)
		}
		if wantAll || wantCerts {
			dumpCertificates(img, w, size)
		}
		closeFn()
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "pedump",
		Short: "A read-only Portable Executable inspector",
		Long:  "pedump walks a PE/COFF image lazily and prints the tables it is asked for",
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("pedump 0.1.0")
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump [files...]",
		Short: "Dump interesting structures of one or more PE files",
		Args:  cobra.MinimumNArgs(1),
		Run:   dump,
	}

	dumpCmd.Flags().BoolVar(&wantDOSHeader, "dosheader", false, "dump DOS header")
	dumpCmd.Flags().BoolVar(&wantRichHeader, "rich", false, "dump Rich header")
	dumpCmd.Flags().BoolVar(&wantNTHeader, "ntheader", false, "dump NT header")
	dumpCmd.Flags().BoolVar(&wantSections, "sections", false, "dump section headers")
	dumpCmd.Flags().BoolVar(&wantImports, "imports", false, "dump import table")
	dumpCmd.Flags().BoolVar(&wantExports, "exports", false, "dump export table")
	dumpCmd.Flags().BoolVar(&wantRelocs, "relocs", false, "dump base relocations")
	dumpCmd.Flags().BoolVar(&wantCerts, "certs", false, "dump Authenticode certificates")
	dumpCmd.Flags().BoolVar(&wantAll, "all", false, "dump everything")

	rootCmd.AddCommand(versionCmd, dumpCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
