package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gofrs/flock"
)

// outputJSON writes the report envelopes as indented JSON
func outputJSON(w io.Writer, report *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report.Envelopes())
}

// outputJSONToFile writes the export to a file. The write is guarded by an
// advisory lock so two runs never interleave in the same export.
func outputJSONToFile(report *Report, filename string) error {
	lock := flock.New(filename + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock output file: %w", err)
	}
	if !locked {
		return fmt.Errorf("output file %s is locked by another process", filename)
	}
	// the lock file stays behind so every run locks the same inode
	defer lock.Unlock()

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := outputJSON(file, report); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return file.Sync()
}

// outputReport routes output to the appropriate format
func outputReport(report *Report, format, filename string) error {
	if filename != "" {
		if err := outputJSONToFile(report, filename); err != nil {
			return err
		}
		logger.Info("JSON export written to %s", filename)
		if format != "text" {
			return nil
		}
	}

	switch format {
	case "json":
		return outputJSON(os.Stdout, report)
	case "text":
		return outputText(os.Stdout, report)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// textWriter prints an indented outline, remembering the first write error
type textWriter struct {
	w   *bufio.Writer
	err error
}

func (t *textWriter) line(indent int, format string, args ...interface{}) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, "%s%s\n", strings.Repeat("  ", indent), fmt.Sprintf(format, args...))
}

func (t *textWriter) title(text string) {
	t.line(0, "")
	t.line(0, "%s", strings.Repeat("#", 80))
	t.line(0, "# %s", text)
	t.line(0, "%s", strings.Repeat("#", 80))
}

// outputText renders the report tree for humans
func outputText(w io.Writer, report *Report) error {
	t := &textWriter{w: bufio.NewWriter(w)}

	h := report.Header
	t.title(fmt.Sprintf("%s %s, tenancy %s", h.Program, h.Version, h.Tenancy))
	t.line(0, "Run ID      : %s", h.RunID)
	t.line(0, "Date        : %s", h.Date)
	t.line(0, "Home Region : %s", h.HomeRegion)
	if h.Cmdline != "" {
		t.line(0, "Command     : %s", h.Cmdline)
	}

	if report.Identity != nil {
		writeIdentity(t, report.Identity)
	}
	for _, region := range report.Regions {
		t.title("Region " + region.Region)
		if len(region.Compartments) == 0 {
			t.line(0, "No resources found")
		}
		for _, c := range region.Compartments {
			writeCompartment(t, c)
		}
	}

	if t.err != nil {
		return t.err
	}
	return t.w.Flush()
}

func writeIdentity(t *textWriter, ir *IdentityReport) {
	t.title("Identity")
	t.line(0, "Compartments:")
	for _, c := range ir.Compartments {
		t.line(1, "%s", c.Path)
	}
	t.line(0, "Users:")
	for _, u := range ir.Users {
		t.line(1, "%s (%s) mfa=%t groups: %s", u.Name, u.Email, u.Mfa, strings.Join(u.Groups, ", "))
	}
	t.line(0, "Groups:")
	for _, g := range ir.Groups {
		t.line(1, "%s: %s", g.Name, strings.Join(g.Users, ", "))
	}
	t.line(0, "Dynamic Groups:")
	for _, g := range ir.DynamicGroups {
		t.line(1, "%s: %s", g.Name, g.MatchingRule)
	}
	t.line(0, "Policies:")
	for _, pc := range ir.Policies {
		t.line(1, "%s", pc.Path)
		for _, p := range pc.Policies {
			t.line(2, "%s", p.Name)
			for _, s := range p.Statements {
				t.line(3, "%s", s)
			}
		}
	}
}

func writeCompartment(t *textWriter, c CompartmentReport) {
	t.line(0, "")
	t.line(0, "Compartment %s", c.Path)
	t.line(0, "%s", strings.Repeat("=", 80))

	if n := c.Network; n != nil {
		for _, vcn := range n.Vcns {
			t.line(1, "VCN    : %s - %s", vcn.Name, strings.Join(vcn.CidrBlocks, ", "))
			for _, g := range vcn.InternetGateways {
				t.line(2, "Internet GW : %s %s", g.Name, g.Details)
			}
			for _, g := range vcn.NatGateways {
				t.line(2, "NAT GW      : %s %s", g.Name, g.Details)
			}
			for _, g := range vcn.ServiceGateways {
				t.line(2, "Service GW  : %s %s", g.Name, g.Details)
			}
			for _, g := range vcn.DrgAttachments {
				t.line(2, "DRG         : %s %s", g.Name, g.Details)
			}
			for _, g := range vcn.LocalPeerings {
				t.line(2, "Local Peer  : %s %s", g.Name, g.Details)
			}
			for _, s := range vcn.Subnets {
				t.line(2, "Subnet %s %s (%s, %s)", s.CidrBlock, s.Name, s.Access, s.Availability)
				t.line(3, "Route Table : %s", s.RouteTable)
				for _, sl := range s.SecurityLists {
					t.line(3, "Sec List    : %s", sl)
				}
				t.line(3, "DHCP        : %s", s.DhcpOptions)
			}
			for _, sl := range vcn.SecurityLists {
				t.line(2, "Security List : %s", sl.Name)
				for _, r := range sl.Rules {
					t.line(3, "%s", r)
				}
			}
			for _, sg := range vcn.SecurityGroups {
				t.line(2, "Security Group : %s", sg.Name)
				for _, r := range sg.Rules {
					t.line(3, "%s", r)
				}
			}
			for _, rt := range vcn.RouteTables {
				t.line(2, "Route Table : %s", rt.Name)
				for _, r := range rt.Rules {
					t.line(3, "%s -> %s", r.Destination, r.Target)
				}
			}
			for _, d := range vcn.DhcpOptions {
				t.line(2, "DHCP Options : %s %s", d.Name, strings.Join(d.Options, "; "))
			}
		}
		for _, drg := range n.Drgs {
			t.line(1, "DRG    : %s vcns: %s", drg.Name, strings.Join(drg.Vcns, ", "))
		}
		for _, cpe := range n.Cpes {
			t.line(1, "CPE    : %s %s", cpe.Name, cpe.IPAddress)
		}
		for _, ipsec := range n.IPSec {
			t.line(1, "IPSec  : %s drg=%s cpe=%s", ipsec.Name, ipsec.Drg, ipsec.Cpe)
		}
		for _, vc := range n.VirtualCircuits {
			t.line(1, "FastConnect : %s drg=%s %s", vc.Name, vc.Drg, vc.BandwidthShape)
		}
	}

	if cr := c.Compute; cr != nil {
		for _, inst := range cr.Instances {
			t.line(1, "Instance : %s - %s (%s)", inst.Name, inst.Shape, inst.LifecycleState)
			for _, v := range inst.Vnics {
				t.line(2, "VNIC : %s %s subnet %s", v.PrivateIP, v.PublicIP, v.Subnet)
			}
			if inst.BootVolume != nil {
				t.line(2, "Boot : %s %dGB", inst.BootVolume.Name, inst.BootVolume.SizeInGBs)
			}
			for _, vol := range inst.BlockVolumes {
				t.line(2, "Vol  : %s %dGB %s", vol.Name, vol.SizeInGBs, vol.Details)
			}
		}
		for _, vol := range cr.BlockVolumes {
			t.line(1, "Block Volume not attached : %s %dGB", vol.Name, vol.SizeInGBs)
		}
		for _, vol := range cr.BootVolumes {
			t.line(1, "Boot Volume not attached : %s %dGB", vol.Name, vol.SizeInGBs)
		}
	}

	if dr := c.Database; dr != nil {
		for _, db := range dr.DbSystems {
			t.line(1, "DB System : %s - %s %s", db.Name, db.Shape, db.Edition)
			t.line(2, "Subnet : %s", db.Subnet)
			if len(db.ScanIPs) > 0 {
				t.line(2, "Scan IPs : %s", strings.Join(db.ScanIPs, ", "))
			}
			for _, n := range db.Nodes {
				t.line(2, "Node : %s %s", n.Name, n.PrivateIP)
			}
			for _, h := range db.Homes {
				t.line(2, "Home : %s %s", h.Name, h.Version)
				for _, d := range h.Databases {
					t.line(3, "Database : %s (%s)", d.Name, d.State)
				}
			}
		}
		for _, adb := range dr.Autonomous {
			t.line(1, "Autonomous : %s - %s %s", adb.Name, adb.Workload, adb.State)
		}
	}
}
