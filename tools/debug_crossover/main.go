package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	calc "github.com/fical/fi-calculator/internal/calculation"
	"github.com/fical/fi-calculator/internal/config"
	"github.com/fical/fi-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Prints the baseline and a spending what-if side by side, then the age at
// which the two net worth curves cross.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: debug_crossover <plan-file> [spending-delta]")
		return
	}
	p := config.NewInputParser()
	plan, err := p.LoadFromFile(os.Args[1])
	if err != nil {
		panic(err)
	}

	delta := decimal.NewFromFloat(-0.1)
	if len(os.Args) > 2 {
		f, err := strconv.ParseFloat(os.Args[2], 64)
		if err != nil {
			panic(err)
		}
		delta = decimal.NewFromFloat(f)
	}

	engine := calc.NewCalculationEngine()
	ctx := context.Background()
	a, err := engine.Project(ctx, plan, domain.WhatIf{})
	if err != nil {
		panic(err)
	}
	b, err := engine.Project(ctx, plan, domain.WhatIf{SpendingMultiplierDelta: delta})
	if err != nil {
		panic(err)
	}

	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		fmt.Println("no projection data")
		return
	}

	fmt.Println("Year,Age,A_Expenses,A_Withdrawal,A_NetWorth,B_Expenses,B_Withdrawal,B_NetWorth,Diff")
	for i := 0; i < n; i++ {
		ya, yb := a[i], b[i]
		fmt.Printf("%d,%d,%s,%s,%s,%s,%s,%s,%s\n", ya.Year, ya.Age,
			ya.Expenses.StringFixed(0), ya.Withdrawal.StringFixed(0), ya.NetWorth.StringFixed(0),
			yb.Expenses.StringFixed(0), yb.Withdrawal.StringFixed(0), yb.NetWorth.StringFixed(0),
			ya.NetWorth.Sub(yb.NetWorth).StringFixed(0))
	}

	cross := calc.NetWorthCrossoverPoint(a, b)
	if cross == nil {
		fmt.Printf("\nCrossover: none (spending delta %s)\n", delta.String())
		return
	}
	fmt.Printf("\nCrossover: %+v\n", *cross)
}
