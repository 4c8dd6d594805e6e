// Command bankcli is the interactive terminal front end. It holds one
// connection to the server, sends exactly one request per menu choice, and
// renders the reply. All business rules live server-side.
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/bank-server/internal/wire"
)

func main() {
	addr := os.Getenv("BANK_SERVER_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not connect to %s: %v\n", addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	fmt.Println("Connected to bank server.")
	stdin := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(mainMenu)
		choice := readLine(stdin)

		var req wire.Request
		switch choice {
		case "1":
			req = promptOpen(stdin)
		case "2":
			req = promptAuthOnly(stdin, wire.KindCloseAccount, "CLOSE ACCOUNT")
		case "3":
			req = promptAmount(stdin, wire.KindWithdraw, "WITHDRAW")
		case "4":
			req = promptAmount(stdin, wire.KindDeposit, "DEPOSIT")
		case "5":
			req = promptAuthOnly(stdin, wire.KindCheckBalance, "CHECK BALANCE")
		case "6":
			req = promptAuthOnly(stdin, wire.KindGetStatement, "ACCOUNT STATEMENT")
		case "0":
			fmt.Println("Thank you for using our banking system. Goodbye!")
			return
		default:
			fmt.Println("Invalid choice. Please try again.")
			continue
		}

		if err := wire.WriteRequest(conn, req); err != nil {
			fmt.Fprintf(os.Stderr, "send failed: %v\n", err)
			return
		}
		resp, err := wire.ReadResponse(conn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "server closed the connection: %v\n", err)
			return
		}
		render(req.Kind, resp)
	}
}

const mainMenu = `
===== BANK MANAGEMENT SYSTEM =====
1. Open Account
2. Close Account
3. Withdraw
4. Deposit
5. Check Balance
6. Get Statement
0. Exit
Enter your choice: `

func promptOpen(stdin *bufio.Scanner) wire.Request {
	fmt.Println("\n===== OPEN ACCOUNT =====")
	req := wire.Request{Kind: wire.KindOpenAccount}

	fmt.Print("Enter name: ")
	req.Name = readLine(stdin)

	fmt.Print("Enter national ID: ")
	req.NationalID = readLine(stdin)

	fmt.Print("Select account type (1 for Savings, 2 for Checking): ")
	if readLine(stdin) == "2" {
		req.AccountType = wire.AccountTypeChecking
	} else {
		req.AccountType = wire.AccountTypeSavings
	}

	fmt.Print("Enter initial deposit amount: ")
	req.Amount = readAmount(stdin)
	return req
}

func promptAuthOnly(stdin *bufio.Scanner, kind wire.Kind, title string) wire.Request {
	fmt.Printf("\n===== %s =====\n", title)
	req := wire.Request{Kind: kind}

	fmt.Print("Enter account number: ")
	req.AccountNumber = readLine(stdin)

	fmt.Print("Enter PIN: ")
	req.PIN = readLine(stdin)
	return req
}

func promptAmount(stdin *bufio.Scanner, kind wire.Kind, title string) wire.Request {
	req := promptAuthOnly(stdin, kind, title)

	fmt.Print("Enter amount: ")
	req.Amount = readAmount(stdin)
	return req
}

func render(kind wire.Kind, resp wire.Response) {
	if kind == wire.KindGetStatement && resp.Success {
		fmt.Println("\nAccount Statement")
		fmt.Printf("Current Balance: %s\n\n", resp.Balance.StringFixed(2))
		fmt.Printf("Last %d Transactions:\n", len(resp.Transactions))

		if len(resp.Transactions) == 0 {
			fmt.Println("No transactions found.")
			return
		}
		fmt.Printf("%-20s %-12s %-10s %s\n", "Date", "Type", "Amount", "Description")
		fmt.Println(strings.Repeat("-", 66))
		for _, t := range resp.Transactions {
			kindStr := "Deposit"
			if t.Kind == wire.TransactionWithdrawal {
				kindStr = "Withdrawal"
			}
			fmt.Printf("%-20s %-12s %-10s %s\n",
				t.Timestamp.Format("2006-01-02 15:04:05"), kindStr, t.Amount.StringFixed(2), t.Description)
		}
		return
	}

	fmt.Printf("\n%s\n", resp.Message)
}

func readLine(stdin *bufio.Scanner) string {
	if !stdin.Scan() {
		fmt.Println("\nGoodbye!")
		os.Exit(0)
	}
	return strings.TrimSpace(stdin.Text())
}

func readAmount(stdin *bufio.Scanner) decimal.Decimal {
	for {
		amount, err := decimal.NewFromString(readLine(stdin))
		if err == nil {
			return amount
		}
		fmt.Print("Invalid amount, try again: ")
	}
}
