// Package osdetect identifies the host platform and maps common operator
// intents to OS-appropriate command lines. Plugins consult the mappings so
// that "disk usage" produces df -h on Linux and a WMI query on Windows.
package osdetect

import (
	"os"
	"runtime"
)

// Platform identifies an operating-system family.
type Platform string

const (
	Windows Platform = "windows"
	Linux   Platform = "linux"
	MacOS   Platform = "macos"
)

// Info describes the detected host.
type Info struct {
	Platform Platform
	Shell    string // bash, zsh, powershell
}

// Detect inspects the running process and returns host information.
func Detect() Info {
	switch runtime.GOOS {
	case "windows":
		return Info{Platform: Windows, Shell: "powershell"}
	case "darwin":
		return Info{Platform: MacOS, Shell: defaultShell("zsh")}
	default:
		return Info{Platform: Linux, Shell: defaultShell("bash")}
	}
}

func defaultShell(fallback string) string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return fallback
}

// ShellCommand returns the shell binary and argument prefix used to run a
// command line on the given platform.
func ShellCommand(p Platform) (string, []string) {
	if p == Windows {
		return "powershell", []string{"-NoProfile", "-Command"}
	}
	return "/bin/sh", []string{"-c"}
}

// commandMappings holds the per-platform command text for well-known
// operator intents. Unlisted platforms fall back to the Linux form.
var commandMappings = map[string]map[Platform]string{
	"disk_usage": {
		Windows: "Get-WmiObject -Class Win32_LogicalDisk | Select-Object DeviceID, @{Name='Size(GB)';Expression={[math]::Round($_.Size/1GB,2)}}, @{Name='FreeSpace(GB)';Expression={[math]::Round($_.FreeSpace/1GB,2)}}",
		Linux:   "df -h",
		MacOS:   "df -h",
	},
	"list_processes": {
		Windows: "Get-Process | Sort-Object CPU -Descending | Select-Object -First 10 ProcessName, CPU, WorkingSet",
		Linux:   "ps aux --sort=-%cpu | head -10",
		MacOS:   "ps aux -r | head -10",
	},
	"memory_usage": {
		Windows: "Get-WmiObject -Class Win32_OperatingSystem | Select-Object TotalVisibleMemorySize, FreePhysicalMemory",
		Linux:   "free -h",
		MacOS:   "vm_stat",
	},
	"cpu_usage": {
		Windows: "Get-Counter '\\Processor(_Total)\\% Processor Time'",
		Linux:   "top -bn1 | head -20",
		MacOS:   "top -l 1 | head -20",
	},
	"network_info": {
		Windows: "Get-NetAdapter | Where-Object Status -eq 'Up' | Select-Object Name, InterfaceDescription, LinkSpeed",
		Linux:   "ip addr show",
		MacOS:   "ifconfig",
	},
	"system_info": {
		Windows: "Get-ComputerInfo | Select-Object WindowsProductName, WindowsVersion, TotalPhysicalMemory",
		Linux:   "uname -a && lscpu | head -10 && free -h",
		MacOS:   "system_profiler SPSoftwareDataType SPHardwareDataType",
	},
	"uptime": {
		Windows: "(Get-Date) - (Get-CimInstance Win32_OperatingSystem).LastBootUpTime",
		Linux:   "uptime && who",
		MacOS:   "uptime && who",
	},
	"service_status": {
		Windows: "Get-Service | Where-Object Status -eq 'Running' | Select-Object -First 10 Name, Status",
		Linux:   "systemctl --type=service --state=running | head -10",
		MacOS:   "launchctl list | head -10",
	},
}

// MapCommand returns the command text for a known intent on a platform.
// The second return is false when the intent is unknown.
func MapCommand(intent string, p Platform) (string, bool) {
	byPlatform, ok := commandMappings[intent]
	if !ok {
		return "", false
	}
	if cmd, ok := byPlatform[p]; ok {
		return cmd, true
	}
	return byPlatform[Linux], true
}
